// Package render orchestrates a caption render job end to end: parse,
// segment, assign accents, rasterize, then hand off to the configured output
// mode. Video mode composites the captions onto the source clip with one
// ffmpeg invocation; images-xml mode writes per-cue PNG assets plus a
// frame-accurate timeline descriptor.
package render

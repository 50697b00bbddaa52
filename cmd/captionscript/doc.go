// Command captionscript renders stylized captions from SRT subtitle files,
// either compositing them onto a source video via ffmpeg or exporting a PNG
// sequence with a frame-accurate timeline descriptor.
package main

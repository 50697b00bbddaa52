// Package services holds cross-cutting helpers shared by the render pipeline:
// error category sentinels for boundary classification and context annotation
// for job-scoped logging.
package services

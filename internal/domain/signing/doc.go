// Package signing contains the document and publication aggregates of the
// e-signature workflow: documents move draft -> published -> completed,
// publications group published documents behind a short URL and move
// active -> expired/completed. All status transitions funnel through the
// methods here so that usage counting stays a single-path concern for the
// application layer.
package signing

// Package rules holds the pure predicates used to validate welcome-card input.
//
// Nothing here allocates shared state or returns errors; callers turn a false
// result into the error that fits their context (see pkg/errors).
//
//   - [IsStrictHex] and [ParseHex]: "#RGB" / "#RRGGBB" colors, no alpha
//   - [IsValidURL] and [IsSupportedImageURL]: absolute URLs and avatar URLs
//   - [SniffImageFormat]: magic-number detection for JPEG, PNG and GIF buffers
package rules

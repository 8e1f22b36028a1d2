// Package welcome renders welcome card images: a circular avatar with an
// optional ring, a title and a description over a color or image background.
//
// # Configuration
//
// A [Builder] starts from [DefaultConfig] (1140×520, #23272A background,
// avatar at 448,80 with radius 120) and is adjusted through chained setters
// such as [Builder.SetAvatar], [Builder.SetTitle] and [Builder.SetBackground].
// Setters validate before they mutate; the first failure is kept on the
// builder and returned by [Builder.Err] and [Builder.Build].
//
// # Rendering
//
// [Builder.Build] loads the avatar and background image concurrently,
// cover-fits the background, shrinks the title until it fits 80% of the
// canvas width (90% for the description), clips the avatar into a circle and
// encodes the result as PNG or JPEG.
//
// Images are loaded through an [ImageLoader]. The default [HTTPLoader]
// decodes byte sources directly and fetches URL sources over HTTP.
package welcome

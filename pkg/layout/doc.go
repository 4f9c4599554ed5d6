// Package layout places weighted words on a fixed canvas without overlap.
//
// # Overview
//
// A layout pass turns a slice of [words.Entry] into a [Result]: an RGBA image
// of the placed words, a coarse owner grid for hit testing, and one
// [Placement] per committed word. The pass is greedy and order dependent.
// Words are attempted once each, largest SizeValue first, and a committed
// word is never moved or overwritten by a later one.
//
// # Pipeline
//
//  1. [Normalize] computes size, color and angle ranges over the MaxWords
//     largest entries, applying the optional floors from [Config].
//  2. A one-shot calibration measures a reference glyph and picks the font
//     multiplier so the widest-weighted word spans about
//     LargestSizeWidthProportion of the canvas.
//  3. For each word the [GlyphRenderer] produces a square mask, which
//     [NewCoarseIndex] buckets into 4×4 cells.
//  4. The spiral placer walks an Archimedean spiral around each anchor until
//     the five-probe [Canvas.CollisionCount] is zero, slides the word back
//     toward its anchor, and commits it.
//  5. [Result.Lookup] resolves canvas pixels to entry indices.
//
// # Occupancy
//
// The [Canvas] keeps two resolutions: the fine image, where a pixel is
// occupied when its alpha is non-zero, and an owner grid of 4×4 cells. A
// commit marks a 2×2 block of owner cells for every coarse cell of the word,
// so a collision test only inspects fine pixels near cells that are already
// owned. Owner cells never return to empty within a pass.
//
// # Exhaustion
//
// A word that finds no free spot within 580 turns of the spiral around every
// anchor is left unplaced. With [ExhaustStop] (the default) the pass ends
// there and every remaining word is reported in [Result.Unplaced]; with
// [ExhaustSkip] the pass moves on to the next word.
//
// # Concurrency
//
// [Build] allocates all of its state per call, so independent passes may run
// in parallel. A finished [Result] is read-only.
package layout

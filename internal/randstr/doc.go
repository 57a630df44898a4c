// Package randstr generates cryptographically secure random strings over composable
// character alphabets, with rejection sampling to keep character selection unbiased
// even when the alphabet size does not evenly divide the byte range.
package randstr

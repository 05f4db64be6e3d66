package render

// DefaultPalettes returns the built-in glyph ramps, each ordered sparse
// to dense.
func DefaultPalettes() map[string]string {
	return map[string]string{
		"dot_only":    " .",
		"ascii_basic": " .:-=+*#%@",
		"ascii_dense": " .'`^\",:;Il!i~+_-?][}{1)(|\\/*tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$",
		"blocks":      " ▏▎▍▌▋▊▉█",
		"shades":      " ░▒▓█",
	}
}

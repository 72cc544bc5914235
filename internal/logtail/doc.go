// Package logtail reads the end of the ebs log file for `ebs logs`.
//
// Read uses a ring buffer of maxLines entries, so memory stays proportional
// to the requested tail rather than the file size, and lines come back in
// file order. A missing file yields no lines and no error.
//
// ColorizeLine tints slog records (text or JSON) by level with lipgloss.
// Lines without a recognizable level pass through unchanged.
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//	if err != nil {
//		return err
//	}
//	for _, line := range logtail.ColorizeLines(lines) {
//		fmt.Println(line)
//	}
package logtail

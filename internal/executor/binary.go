package executor

// isBinaryContent checks if content bytes contain binary data by looking for null bytes.
// UTF-16 and UTF-32 BOMs are treated as text to avoid false positives.
func isBinaryContent(content []byte) bool {
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) ||
			(content[0] == 0xFE && content[1] == 0xFF) {
			return false
		}
	}
	if len(content) >= 4 {
		if content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF {
			return false
		}
	}

	for _, b := range content {
		if b == 0 {
			return true
		}
	}
	return false
}

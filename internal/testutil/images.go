package testutil

// JPEG возвращает size байт, которые определяются как image/jpeg.
func JPEG(size int) []byte {
	header := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	if size < len(header) {
		size = len(header)
	}

	data := make([]byte, size)
	copy(data, header)
	for i := len(header); i < size; i++ {
		data[i] = byte(i % 251)
	}

	return data
}

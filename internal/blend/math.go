package blend

// mulDiv255 multiplies two bytes and divides by 255 with rounding.
// Formula: (a * b + 127) / 255
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// lerp255 moves from a towards b by t/255.
func lerp255(a, b, t byte) byte {
	switch t {
	case 0:
		return a
	case 255:
		return b
	}
	v := int(a) + (int(b)-int(a))*int(t)/255
	return byte(v)
}

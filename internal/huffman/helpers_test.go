package huffman

import "fmt"

// parseCode builds a Code from a string of '0' and '1' characters.
func parseCode(s string) (Code, error) {
	var c Code
	if len(s) > MaxCodeLen {
		return c, fmt.Errorf("code of %d bits exceeds %d", len(s), MaxCodeLen)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			c = c.Append(0)
		case '1':
			c = c.Append(1)
		default:
			return Code{}, fmt.Errorf("invalid code character %q", s[i])
		}
	}
	return c, nil
}

// hasPrefix reports whether p is a prefix of c.
func hasPrefix(c, p Code) bool {
	if p.Len() > c.Len() {
		return false
	}
	for i := 0; i < p.Len(); i++ {
		if c.Bit(i) != p.Bit(i) {
			return false
		}
	}
	return true
}

// distinct counts the byte values with a non-zero frequency.
func distinct(f *Frequencies) int {
	n := 0
	for _, c := range f {
		if c > 0 {
			n++
		}
	}
	return n
}

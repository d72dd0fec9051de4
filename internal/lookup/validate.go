package lookup

// npiLength is the fixed width of a National Provider Identifier.
const npiLength = 10

// Validate checks that input is exactly 10 ASCII decimal digits and returns
// it unchanged as a Key. Any other input yields a KindInvalidFormat failure
// echoing the raw input. No checksum is applied.
func Validate(input string) (Key, *Failure) {
	if len(input) != npiLength {
		return "", invalidFormat(input)
	}
	for i := 0; i < len(input); i++ {
		if input[i] < '0' || input[i] > '9' {
			return "", invalidFormat(input)
		}
	}
	return Key(input), nil
}

package user

// CPFLength is the number of digits in an unformatted CPF.
const CPFLength = 11

// IsWellFormedCPF reports whether s consists of exactly eleven ASCII digits.
func IsWellFormedCPF(s string) bool {
	if len(s) != CPFLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsValidCPF reports whether s is well formed and both check digits match.
// Sequences of a single repeated digit pass the arithmetic but are never
// issued, so they are rejected.
func IsValidCPF(s string) bool {
	if !IsWellFormedCPF(s) {
		return false
	}

	repeated := true
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	return checkDigit(s[:9]) == s[9] && checkDigit(s[:10]) == s[10]
}

// checkDigit computes the mod-11 check digit for the given prefix, weighting
// the leftmost digit with len(prefix)+1 down to 2 for the rightmost.
func checkDigit(prefix string) byte {
	sum := 0
	weight := len(prefix) + 1
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
	}

	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + 11 - rem)
}

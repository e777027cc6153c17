package boleto

// Mod10 computes the codeline block check digit of digits.
//
// Weights alternate 2,1,2,1... starting from the leftmost digit. Products of
// 10 or more are reduced to the sum of their digits before adding up.
func Mod10(digits string) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		p := int(digits[i]-'0') * (2 - i%2)
		if p >= 10 {
			p -= 9
		}
		sum += p
	}
	r := sum % 10
	if r == 0 {
		return 0
	}
	return 10 - r
}

// Mod11 computes the general check digit of the 43-digit payload.
//
// Weights cycle 2..9 starting from the rightmost digit. A result of 0, 10 or
// 11 is written as 1, so the general digit is never zero.
func Mod11(payload string) int {
	sum := 0
	weight := 2
	for i := len(payload) - 1; i >= 0; i-- {
		sum += int(payload[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	dv := 11 - sum%11
	if dv == 0 || dv == 10 || dv == 11 {
		return 1
	}
	return dv
}

func digitChar(d int) byte {
	return byte('0' + d)
}

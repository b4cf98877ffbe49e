package commandproto

import "strings"

// matchEcho implements the parameter-echo match rule: the
// controller may canonicalize whitespace and leading zeros when it
// echoes a request's parameters back in its response, so the extractor
// walks the echoed response and the original parameter string in
// lockstep, tolerating two kinds of drift, and returns whatever follows
// the matched parameter in the response (embedded NULs stripped).
//
// Relaxations:
//  1. any run of ASCII spaces in param matches any non-empty run of
//     spaces in response;
//  2. any run of '0' digits not immediately preceded by a digit (i.e. a
//     leading-zero run at the start of a number) matches any such run
//     -- of any length, including zero -- in the other string.
//
// Any other difference is a mismatch.
func matchEcho(response, param string) (string, bool) {
	i, j := 0, 0
	for i < len(param) {
		if param[i] == ' ' {
			if j >= len(response) || response[j] != ' ' {
				return "", false
			}
			for i < len(param) && param[i] == ' ' {
				i++
			}
			start := j
			for j < len(response) && response[j] == ' ' {
				j++
			}
			if j == start {
				return "", false
			}
			continue
		}

		prevParamDigit := i > 0 && isDigit(param[i-1])
		prevRespDigit := j > 0 && isDigit(response[j-1])
		if !prevParamDigit && !prevRespDigit {
			for i < len(param) && param[i] == '0' {
				i++
			}
			for j < len(response) && response[j] == '0' {
				j++
			}
			if i >= len(param) {
				break
			}
		}

		if j >= len(response) || response[j] != param[i] {
			return "", false
		}
		i++
		j++
	}
	return strings.ReplaceAll(response[j:], "\x00", ""), true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

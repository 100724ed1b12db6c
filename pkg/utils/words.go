package utils

import (
	"math"
	"strings"
)

var onesWords = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
var teenWords = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
var tensWords = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
var scaleWords = []string{"", "Thousand", "Million", "Billion"}

// AmountInWords renders a monetary amount as words, Taka for the integer
// part and Poisha for the cents: 150.75 -> "One Hundred Fifty Taka and
// Seventy Five Poisha".
func AmountInWords(amount float64) string {
	totalPoisha := int64(math.Round(amount * 100))
	taka := totalPoisha / 100
	poisha := totalPoisha % 100

	words := spellInteger(taka) + " Taka"
	if poisha > 0 {
		words += " and " + spellInteger(poisha) + " Poisha"
	}
	return words
}

// spellInteger converts a non-negative integer to words
func spellInteger(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	for i := 0; n > 0; i++ {
		if group := n % 1000; group != 0 {
			word := spellBelowThousand(group)
			if scaleWords[i] != "" {
				word += " " + scaleWords[i]
			}
			parts = append([]string{word}, parts...)
		}
		n /= 1000
	}
	return strings.Join(parts, " ")
}

func spellBelowThousand(n int64) string {
	switch {
	case n < 10:
		return onesWords[n]
	case n < 20:
		return teenWords[n-10]
	case n < 100:
		word := tensWords[n/10]
		if n%10 != 0 {
			word += " " + onesWords[n%10]
		}
		return word
	default:
		word := onesWords[n/100] + " Hundred"
		if n%100 != 0 {
			word += " " + spellBelowThousand(n%100)
		}
		return word
	}
}

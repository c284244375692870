package paytmControllers

import (
	"strconv"
)

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	return uint(id), err
}

func amountString(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

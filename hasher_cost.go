//go:build !race

package accounts

func defaultHashCost() int {
	return 14
}

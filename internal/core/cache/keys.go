package cache

import "fmt"

const (
	KeyAllCustomers = "AllCustomers"
	KeyAllOrders    = "AllOrders"
)

func CustomerKey(id uint) string { return fmt.Sprintf("Customer_%d", id) }
func OrderKey(id uint) string    { return fmt.Sprintf("Order_%d", id) }

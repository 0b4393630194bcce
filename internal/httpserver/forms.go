package httpserver

import ordersvc "mybooklist/internal/service/order"

// Request payloads. Field names follow the JSON the frontend already
// sends, hence the flat lowercase keys.

type cartForm struct {
	CartID   int64  `json:"id"`
	Password string `json:"password"`
}

type addBookForm struct {
	CartID   int64  `json:"id"`
	Password string `json:"password"`
	Quantity int    `json:"quantity"`
}

type quantityForm struct {
	Quantity int `json:"quantity"`
}

type orderPasswordForm struct {
	OrderID  int64  `json:"orderid"`
	Password string `json:"password"`
}

// anonymousCheckoutForm carries the cart credentials next to the
// shipping address.
type anonymousCheckoutForm struct {
	CartID   int64  `json:"cartid"`
	Password string `json:"password"`
	ordersvc.AddressInput
}

type credentialsForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyForm struct {
	Code string `json:"code"`
}

type emailForm struct {
	Email string `json:"email"`
}

type changePasswordForm struct {
	OldPassword string `json:"oldpassword"`
	NewPassword string `json:"newpassword"`
}

type categoryForm struct {
	Category string `json:"category"`
}

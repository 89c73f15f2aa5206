package models

type Wallet struct {
	UserID     string  `json:"userId" bson:"userId"`
	Balance    float64 `json:"balance" bson:"balance"`
	CardNumber string  `json:"cardNumber" bson:"cardNumber"`
	CardHolder string  `json:"cardHolder" bson:"cardHolder"`
	Expiry     string  `json:"expiry" bson:"expiry"`
	CVV        string  `json:"cvv" bson:"cvv"`
}

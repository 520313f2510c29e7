package types

type PaymentProvider string

const (
	PaymentProviderStripe PaymentProvider = "stripe"
	PaymentProviderPaypal PaymentProvider = "paypal"
)

func (p PaymentProvider) Valid() bool {
	return p == PaymentProviderStripe || p == PaymentProviderPaypal
}

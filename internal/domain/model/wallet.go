package model

// WalletBrand selects which regional e-wallet provider handles the payment.
type WalletBrand string

const (
	WalletAlipayCN      WalletBrand = "ALIPAY_CN"
	WalletAlipayHK      WalletBrand = "ALIPAY_HK"
	WalletConnectWallet WalletBrand = "CONNECT_WALLET"
	WalletTrueMoney     WalletBrand = "TRUEMONEY"
	WalletTNG           WalletBrand = "TNG"
	WalletGCash         WalletBrand = "GCASH"
	WalletDana          WalletBrand = "DANA"
	WalletKakaoPay      WalletBrand = "KAKAOPAY"
)

// WalletBrands lists every wallet accepted at checkout.
var WalletBrands = []WalletBrand{
	WalletAlipayCN,
	WalletAlipayHK,
	WalletConnectWallet,
	WalletTrueMoney,
	WalletTNG,
	WalletGCash,
	WalletDana,
	WalletKakaoPay,
}

// Valid reports whether the brand belongs to the accepted set.
func (b WalletBrand) Valid() bool {
	for _, known := range WalletBrands {
		if b == known {
			return true
		}
	}
	return false
}

// NormalizeWalletBrand applies the gateway default for an empty brand.
func NormalizeWalletBrand(b WalletBrand) WalletBrand {
	if b == "" {
		return WalletAlipayCN
	}
	return b
}

package models

// SettingsID is the primary key of the single settings row.
const SettingsID = 1

type BankDetails struct {
	Name          string `json:"name"`
	Branch        string `json:"branch"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	MICR          string `json:"micr"`
}

type CompanyInfo struct {
	Name    string      `json:"name"`
	Address string      `json:"address"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
	Bank    BankDetails `json:"bank"`
	UPIID   string      `json:"upi_id"`
}

type PaymentGatewaySettings struct {
	Primary        string `json:"primary"`
	UPIID          string `json:"upi_id"`
	StripeAPIKey   string `json:"stripe_api_key"`
	RazorpayAPIKey string `json:"razorpay_api_key"`
	SMSAPIKey      string `json:"sms_api_key"`
}

type FontWeights struct {
	Regular   int `json:"regular"`
	Bold      int `json:"bold"`
	ExtraBold int `json:"extrabold"`
}

type ThemeColors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Light         string `json:"light"`
	Dark          string `json:"dark"`
	TextPrimary   string `json:"text_primary"`
	TextSecondary string `json:"text_secondary"`
	Border        string `json:"border"`
}

type ThemeSettings struct {
	LogoURL       string      `json:"logo_url"`
	BackgroundURL string      `json:"background_url"`
	FontFamily    string      `json:"font_family"`
	FontWeight    FontWeights `json:"font_weight"`
	LineHeight    float64     `json:"line_height"`
	Colors        ThemeColors `json:"colors"`
}

// AppSettings holds admin-editable company, gateway and theme settings.
// There is exactly one row, keyed by SettingsID.
type AppSettings struct {
	ID             uint                   `gorm:"primaryKey" json:"-"`
	CompanyInfo    CompanyInfo            `gorm:"serializer:json" json:"company_info"`
	PaymentGateway PaymentGatewaySettings `gorm:"serializer:json" json:"payment_gateway"`
	Theme          ThemeSettings          `gorm:"serializer:json" json:"theme"`
}

// TableName specifies the table name for the AppSettings model
func (AppSettings) TableName() string {
	return "app_settings"
}

// Payee returns the UPI id subscription payments are collected into.
func (s AppSettings) Payee() string {
	if s.PaymentGateway.UPIID != "" {
		return s.PaymentGateway.UPIID
	}
	return s.CompanyInfo.UPIID
}

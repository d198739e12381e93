package models

// Credentials: ключи API. Приходят снаружи (конфиг/env), не меняются.
type Credentials struct {
	APIKey    string
	APISecret string
}

func (c Credentials) Empty() bool { return c.APIKey == "" || c.APISecret == "" }

// String не светит секрет в логах и %v.
func (c Credentials) String() string {
	if c.APIKey == "" {
		return "Credentials{}"
	}
	return "Credentials{APIKey: " + mask(c.APIKey) + ", APISecret: [REDACTED]}"
}

func (c Credentials) GoString() string { return c.String() }

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

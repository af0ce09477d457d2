package model

// Setting keys stored in site_settings.key_name.
const (
	SettingThemeColor = "theme_color"
	SettingFooterInfo = "footer_info"
)

// DefaultThemeColor is used until an admin picks a color.
const DefaultThemeColor = "#000000"

// FooterInfo is the contact block rendered in every page footer. It is
// persisted as one JSON document.
type FooterInfo struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Wechat  string `json:"wechat"`
	Weibo   string `json:"weibo"`
	Email   string `json:"email"`
}

// DefaultFooter returns the footer shown before any admin edit.
func DefaultFooter() FooterInfo {
	return FooterInfo{
		Address: "北京市朝阳区某某大厦1001室",
		Phone:   "010-12345678",
		Wechat:  "rtnut_official",
		Weibo:   "https://weibo.com/rtnut",
		Email:   "contact@rtnut.com",
	}
}

// SiteSettings is the per-request view of the settings every page needs.
type SiteSettings struct {
	ThemeColor string
	Footer     FooterInfo
}

package models

// Settings keys as stored in the key/value settings table.
const (
	SettingShopName       = "shop_name"
	SettingShopPhone      = "shop_phone"
	SettingShopEmail      = "shop_email"
	SettingShopAddress    = "shop_address"
	SettingShopCity       = "shop_city"
	SettingWhatsAppNumber = "whatsapp_number"
	SettingDeliveryTiming = "delivery_timing"
	SettingSundayTiming   = "sunday_timing"
)

var SettingKeys = []string{
	SettingShopName, SettingShopPhone, SettingShopEmail, SettingShopAddress,
	SettingShopCity, SettingWhatsAppNumber, SettingDeliveryTiming, SettingSundayTiming,
}

func IsSettingKey(key string) bool {
	for _, k := range SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

type ShopSettings struct {
	ShopName       string `json:"shop_name"`
	ShopPhone      string `json:"shop_phone"`
	ShopEmail      string `json:"shop_email"`
	ShopAddress    string `json:"shop_address"`
	ShopCity       string `json:"shop_city"`
	WhatsAppNumber string `json:"whatsapp_number"`
	DeliveryTiming string `json:"delivery_timing"`
	SundayTiming   string `json:"sunday_timing"`
}

func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		ShopName:       "JP.Vegetables & Fruits",
		ShopPhone:      "+91 98765 43210",
		ShopEmail:      "order@jpvegetables.com",
		ShopAddress:    "123 Market Street, Chennai, Tamil Nadu",
		ShopCity:       "Chennai",
		WhatsAppNumber: "919876543210",
		DeliveryTiming: "Mon - Sat: 6:00 AM - 9:00 PM",
		SundayTiming:   "Sunday: 7:00 AM - 2:00 PM",
	}
}

// SettingsFromMap overlays stored values on the defaults. Empty stored
// values win over defaults, matching how the admin clears a field.
func SettingsFromMap(values map[string]string) ShopSettings {
	s := DefaultShopSettings()
	for k, v := range values {
		switch k {
		case SettingShopName:
			s.ShopName = v
		case SettingShopPhone:
			s.ShopPhone = v
		case SettingShopEmail:
			s.ShopEmail = v
		case SettingShopAddress:
			s.ShopAddress = v
		case SettingShopCity:
			s.ShopCity = v
		case SettingWhatsAppNumber:
			s.WhatsAppNumber = v
		case SettingDeliveryTiming:
			s.DeliveryTiming = v
		case SettingSundayTiming:
			s.SundayTiming = v
		}
	}
	return s
}

func (s ShopSettings) ToMap() map[string]string {
	return map[string]string{
		SettingShopName:       s.ShopName,
		SettingShopPhone:      s.ShopPhone,
		SettingShopEmail:      s.ShopEmail,
		SettingShopAddress:    s.ShopAddress,
		SettingShopCity:       s.ShopCity,
		SettingWhatsAppNumber: s.WhatsAppNumber,
		SettingDeliveryTiming: s.DeliveryTiming,
		SettingSundayTiming:   s.SundayTiming,
	}
}

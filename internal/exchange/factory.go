package exchange

import (
	"fmt"
	"strings"

	"okcoinweb/pkg/utils"
)

// Адреса сайтов биржи
var siteURLs = map[string]string{
	"okcoin.cn":  "https://www.okcoin.cn",
	"okcoin.com": "https://www.okcoin.com",
}

// SupportedSites - список поддерживаемых сайтов
var SupportedSites = []string{
	"okcoin.cn",
	"okcoin.com",
}

// NewIcebergSource создаёт клиент для сайта по имени
//
// Пустой cfg.BaseURL заменяется адресом сайта; непустой оставляется как
// есть (зеркало, локальный стенд).
func NewIcebergSource(site string, cfg WebConfig, logger *utils.Logger) (IcebergOrderSource, error) {
	site = strings.ToLower(site)

	baseURL, ok := siteURLs[site]
	if !ok {
		return nil, fmt.Errorf("unsupported site: %s (supported: %s)", site, strings.Join(SupportedSites, ", "))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURL
	}

	return NewOKCoinWeb(site, cfg, logger)
}

// IsSupported проверяет, поддерживается ли сайт
func IsSupported(site string) bool {
	_, ok := siteURLs[strings.ToLower(site)]
	return ok
}

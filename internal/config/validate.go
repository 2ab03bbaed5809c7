// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

// MaxAudioQuality is the highest audio quality ordinal; 0 is the best.
const MaxAudioQuality = 5

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validBrowsers = map[string]bool{
	"chrome": true, "edge": true, "firefox": true,
}

var validProxySchemes = map[string]bool{
	"http": true, "https": true, "socks4": true, "socks5": true, "socks5h": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Cookie store is the one required setting. Whether it can be read is
	// checked when the batch starts.
	if c.Cookies.Store == "" {
		errs = append(errs, fmt.Sprintf("cookies.store: required (set it in the config file or %s)", EnvCookieStore))
	}

	if !validBrowsers[c.Cookies.Browser] {
		errs = append(errs, fmt.Sprintf("cookies.browser: must be one of chrome, edge, firefox; got %q", c.Cookies.Browser))
	}

	if c.Download.Proxy != "" {
		u, err := url.Parse(c.Download.Proxy)
		if err != nil || u.Host == "" || !validProxySchemes[u.Scheme] {
			errs = append(errs, fmt.Sprintf("download.proxy: must be a URL like http://host:port or socks5://host:port; got %q", c.Download.Proxy))
		}
	}

	if c.Download.AudioQuality < 0 || c.Download.AudioQuality > MaxAudioQuality {
		errs = append(errs, fmt.Sprintf("download.audio_quality: must be between 0 and %d, got %d", MaxAudioQuality, c.Download.AudioQuality))
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}

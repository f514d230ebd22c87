package config

import (
	"fmt"
	"strings"
	"sync"
)

const (
	ModeStaging    = "staging"
	ModeProduction = "production"
)

// Gateway is the resolved, read-only credential set used for every signed
// request. Resolved once per process and shared; never re-read mid-request.
type Gateway struct {
	Mode            string
	MerchantID      string
	SignKey         string
	APIBaseURL      string
	WidgetScriptURL string

	ApproveTimeoutSec   int
	NetCancelTimeoutSec int
}

// ConfigError marks a missing or inconsistent credential set. It is fatal at
// first use: a staging signature against a production merchant id fails
// silently at the gateway, so we refuse to start instead.
type ConfigError struct {
	Mode    string
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gateway config incomplete for mode %q, missing: %s", e.Mode, strings.Join(e.Missing, ", "))
}

var (
	gatewayOnce sync.Once
	gateway     *Gateway
	gatewayErr  error
)

// ResolveGateway resolves credentials for the active mode. Precedence:
// explicit gateway.mode, else production iff the production signKey is
// present, else staging. No cross-mode fallback for individual fields.
func ResolveGateway() (*Gateway, error) {
	gatewayOnce.Do(func() {
		gateway, gatewayErr = resolveGateway(&C.Gateway)
	})
	return gateway, gatewayErr
}

// MustGateway is for wiring at startup, where a bad credential set must stop
// the process before any order can be created.
func MustGateway() *Gateway {
	gw, err := ResolveGateway()
	if err != nil {
		panic(err)
	}
	return gw
}

func resolveGateway(cfg *GatewayCfg) (*Gateway, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	switch mode {
	case ModeStaging, ModeProduction:
	case "":
		if strings.TrimSpace(cfg.Production.SignKey) != "" {
			mode = ModeProduction
		} else {
			mode = ModeStaging
		}
	default:
		return nil, &ConfigError{Mode: mode, Missing: []string{"mode must be staging or production"}}
	}

	creds := cfg.Staging
	if mode == ModeProduction {
		creds = cfg.Production
	}

	var missing []string
	if strings.TrimSpace(creds.MerchantID) == "" {
		missing = append(missing, "merchantId")
	}
	if strings.TrimSpace(creds.SignKey) == "" {
		missing = append(missing, "signKey")
	}
	if strings.TrimSpace(creds.APIBaseURL) == "" {
		missing = append(missing, "apiBaseUrl")
	}
	if strings.TrimSpace(creds.WidgetScriptURL) == "" {
		missing = append(missing, "widgetScriptUrl")
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Mode: mode, Missing: missing}
	}

	return &Gateway{
		Mode:                mode,
		MerchantID:          strings.TrimSpace(creds.MerchantID),
		SignKey:             strings.TrimSpace(creds.SignKey),
		APIBaseURL:          strings.TrimSpace(creds.APIBaseURL),
		WidgetScriptURL:     strings.TrimSpace(creds.WidgetScriptURL),
		ApproveTimeoutSec:   cfg.ApproveTimeoutSec,
		NetCancelTimeoutSec: cfg.NetCancelTimeoutSec,
	}, nil
}

package config

import (
	"errors"
	"testing"
)

func stagingCreds() GatewayCredsCfg {
	return GatewayCredsCfg{
		MerchantID:      "tmtest01",
		SignKey:         "staging-sign-key",
		APIBaseURL:      "https://stgstdpay.example.com",
		WidgetScriptURL: "https://stgstdpay.example.com/stdjs/pay.js",
	}
}

func productionCreds() GatewayCredsCfg {
	return GatewayCredsCfg{
		MerchantID:      "clearpay1",
		SignKey:         "prod-sign-key",
		APIBaseURL:      "https://stdpay.example.com",
		WidgetScriptURL: "https://stdpay.example.com/stdjs/pay.js",
	}
}

func TestResolveGateway_ExplicitMode(t *testing.T) {
	cfg := &GatewayCfg{Mode: "staging", Staging: stagingCreds(), Production: productionCreds()}
	gw, err := resolveGateway(cfg)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if gw.Mode != ModeStaging || gw.MerchantID != "tmtest01" {
		t.Errorf("wrong creds selected: mode=%s mid=%s", gw.Mode, gw.MerchantID)
	}
}

func TestResolveGateway_InfersProductionFromSignKey(t *testing.T) {
	cfg := &GatewayCfg{Staging: stagingCreds(), Production: productionCreds()}
	gw, err := resolveGateway(cfg)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if gw.Mode != ModeProduction || gw.SignKey != "prod-sign-key" {
		t.Errorf("expected production inference, got mode=%s", gw.Mode)
	}
}

func TestResolveGateway_DefaultsToStaging(t *testing.T) {
	cfg := &GatewayCfg{Staging: stagingCreds()}
	gw, err := resolveGateway(cfg)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if gw.Mode != ModeStaging {
		t.Errorf("expected staging, got %s", gw.Mode)
	}
}

func TestResolveGateway_MissingCredentialFailsLoud(t *testing.T) {
	creds := productionCreds()
	creds.WidgetScriptURL = ""
	cfg := &GatewayCfg{Mode: "production", Production: creds}
	_, err := resolveGateway(cfg)
	if err == nil {
		t.Fatal("expected ConfigError for missing widgetScriptUrl")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if len(ce.Missing) != 1 || ce.Missing[0] != "widgetScriptUrl" {
		t.Errorf("unexpected missing list: %v", ce.Missing)
	}
}

func TestResolveGateway_NoCrossModeFallback(t *testing.T) {
	// production selected but production creds empty: must fail, never
	// silently fall back to staging values.
	cfg := &GatewayCfg{Mode: "production", Staging: stagingCreds()}
	if _, err := resolveGateway(cfg); err == nil {
		t.Fatal("expected error when production creds are absent")
	}
}

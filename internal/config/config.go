package config

import (
	"flag"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port          string `mapstructure:"port"`
	Mode          string `mapstructure:"mode"`
	PublicBaseURL string `mapstructure:"publicBaseUrl"`
}
type MysqlCfg struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Database     string `mapstructure:"database"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}
type RabbitCfg struct {
	URL string `mapstructure:"url"`
}
type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GatewayCredsCfg is one mode's credential set as it appears in yaml.
type GatewayCredsCfg struct {
	MerchantID      string `mapstructure:"merchantId"`
	SignKey         string `mapstructure:"signKey"`
	APIBaseURL      string `mapstructure:"apiBaseUrl"`
	WidgetScriptURL string `mapstructure:"widgetScriptUrl"`
}

type GatewayCfg struct {
	Mode                string          `mapstructure:"mode"` // staging | production | "" (inferred)
	ApproveTimeoutSec   int             `mapstructure:"approveTimeoutSec"`
	NetCancelTimeoutSec int             `mapstructure:"netCancelTimeoutSec"`
	Staging             GatewayCredsCfg `mapstructure:"staging"`
	Production          GatewayCredsCfg `mapstructure:"production"`
}

type NotifyCfg struct {
	TelegramChatID string `mapstructure:"telegramChatId"`
}

type SecurityCfg struct {
	HMACSecret string `mapstructure:"hmacSecret"`
}

type Root struct {
	Server     ServerCfg   `mapstructure:"server"`
	MysqlMain  MysqlCfg    `mapstructure:"mysql_main"`
	MysqlOrder MysqlCfg    `mapstructure:"mysql_order"`
	RabbitMQ   RabbitCfg   `mapstructure:"rabbitmq"`
	Redis      RedisCfg    `mapstructure:"redis"`
	Gateway    GatewayCfg  `mapstructure:"gateway"`
	Notify     NotifyCfg   `mapstructure:"notify"`
	Security   SecurityCfg `mapstructure:"security"`
}

var C Root

func Init() {
	env := flag.String("env", "dev", "config env: dev|prod")
	flag.Parse()

	v := viper.New()
	v.SetConfigFile("config/config." + *env + ".yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config file failed: %v", err)
	}
	if err := v.Unmarshal(&C); err != nil {
		log.Fatalf("unmarshal config failed: %v", err)
	}

	// sane defaults
	if strings.TrimSpace(C.Server.Port) == "" {
		C.Server.Port = "8080"
	}
	if C.Gateway.ApproveTimeoutSec <= 0 {
		C.Gateway.ApproveTimeoutSec = 10
	}
	if C.Gateway.NetCancelTimeoutSec <= 0 {
		C.Gateway.NetCancelTimeoutSec = 10
	}
}

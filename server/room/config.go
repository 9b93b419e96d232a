package room

import (
	"encoding/json"
	"time"
)

type Config struct {
	WsListenAddr string `json:"ws_listen_addr"`
	TokenSecret  string `json:"token_secret"`

	SmallBlind int64 `json:"small_blind"`
	BigBlind   int64 `json:"big_blind"`
	BuyIn      int64 `json:"buy_in"`

	// seconds; 0 disables the timer
	TurnTimeoutSec int `json:"turn_timeout_sec"`
	StartDelaySec  int `json:"start_delay_sec"`

	// ledger backend: "memory", "redis" or "mysql"
	LedgerBackend string `json:"ledger_backend"`
	RedisDSN      string `json:"redis_dsn"`
	MysqlDSN      string `json:"mysql_dsn"`
}

var DefaultConf = &Config{
	WsListenAddr:   ":3001",
	TokenSecret:    "dev-secret",
	SmallBlind:     5,
	BigBlind:       10,
	BuyIn:          1000,
	TurnTimeoutSec: 30,
	StartDelaySec:  3,
	LedgerBackend:  "memory",
	RedisDSN:       "redis://:@127.0.0.1:6379/0",
	MysqlDSN:       "root:123456@tcp(127.0.0.1:3306)/poker?charset=utf8mb4&parseTime=True&loc=Local",
}

func ConfigFromJson(cfg []byte) (*Config, error) {
	conf := &Config{}
	err := json.Unmarshal(cfg, conf)
	if err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutSec) * time.Second
}

func (c *Config) StartDelay() time.Duration {
	return time.Duration(c.StartDelaySec) * time.Second
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	log "github.com/tiaotiao0823/Poker/core/log"
	"github.com/tiaotiao0823/Poker/server/room"
	utilSignal "github.com/tiaotiao0823/Poker/utils/signal"
)

var (
	Version   string = "unknown"
	GitCommit string = "unknown"
	BuildAt   string = "unknown"
)

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = room.NodeName()
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a json config file",
		},
		&cli.StringFlag{
			Name:  "listen",
			Usage: "websocket listen address",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "trace|debug|info|warn|error",
		},
	}
	app.Action = RealMain
	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
	}
}

func loadConfig(c *cli.Context) (*room.Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("poker")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("ws_listen_addr", room.DefaultConf.WsListenAddr)
	v.SetDefault("token_secret", room.DefaultConf.TokenSecret)
	v.SetDefault("small_blind", room.DefaultConf.SmallBlind)
	v.SetDefault("big_blind", room.DefaultConf.BigBlind)
	v.SetDefault("buy_in", room.DefaultConf.BuyIn)
	v.SetDefault("turn_timeout_sec", room.DefaultConf.TurnTimeoutSec)
	v.SetDefault("start_delay_sec", room.DefaultConf.StartDelaySec)
	v.SetDefault("ledger_backend", room.DefaultConf.LedgerBackend)
	v.SetDefault("redis_dsn", room.DefaultConf.RedisDSN)
	v.SetDefault("mysql_dsn", room.DefaultConf.MysqlDSN)

	if path := c.String("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	conf := &room.Config{
		WsListenAddr:   v.GetString("ws_listen_addr"),
		TokenSecret:    v.GetString("token_secret"),
		SmallBlind:     v.GetInt64("small_blind"),
		BigBlind:       v.GetInt64("big_blind"),
		BuyIn:          v.GetInt64("buy_in"),
		TurnTimeoutSec: v.GetInt("turn_timeout_sec"),
		StartDelaySec:  v.GetInt("start_delay_sec"),
		LedgerBackend:  v.GetString("ledger_backend"),
		RedisDSN:       v.GetString("redis_dsn"),
		MysqlDSN:       v.GetString("mysql_dsn"),
	}
	if addr := c.String("listen"); addr != "" {
		conf.WsListenAddr = addr
	}
	return conf, nil
}

func RealMain(c *cli.Context) error {
	log.SetLevel(c.String("log-level"))

	conf, err := loadConfig(c)
	if err != nil {
		return err
	}

	svr, err := room.NewServer(conf)
	if err != nil {
		return err
	}
	if err := svr.Start(); err != nil {
		return err
	}
	defer svr.Stop()

	s := utilSignal.WaitShutdown()
	log.Infof("recv signal: %v", s.String())
	return nil
}

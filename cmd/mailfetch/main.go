package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/k0kubun/pp/v3"
	"github.com/masa23/crmmail/config"
	"github.com/masa23/crmmail/inbox"
	"github.com/masa23/crmmail/mailope"
	"github.com/masa23/crmmail/model"
)

var (
	conf    *config.Config
	version = "dev"
)

func main() {
	var confPath string
	var envPath string
	var accountID string
	var limit int
	var showVersion bool
	var dump bool
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.StringVar(&confPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&envPath, "env", ".env", "Path to .env file")
	flag.StringVar(&accountID, "account", "", "Account ID (default account when empty)")
	flag.IntVar(&limit, "limit", 0, "Number of messages (FetchLimit when 0)")
	flag.BoolVar(&dump, "pp", false, "Pretty print records instead of JSON")
	flag.Parse()

	if showVersion {
		log.Printf("Version: %s", version)
		return
	}

	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to load %s: %v", envPath, err)
	}

	var err error
	conf, err = config.Load(confPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var account model.EmailAccount
	var ok bool
	if accountID != "" {
		account, ok = conf.Account(accountID)
	} else {
		account, ok = conf.DefaultAccount()
	}
	if !ok {
		log.Fatalf("account %q: %v", accountID, config.ErrNoAccount)
	}
	if limit <= 0 {
		limit = conf.FetchLimit
	}

	log.Printf("start mail fetch pid=%d account=%s limit=%d", os.Getpid(), account.ID, limit)
	start := time.Now()

	cache := inbox.New(mailope.NewMailboxSource(account, limit, conf.FetchTimeout), conf.CacheDuration)
	snap := cache.Get(context.Background())
	log.Printf("fetched %d messages status=%s in %s", len(snap.Emails), snap.Status, time.Since(start))
	if snap.Status != inbox.StatusOK {
		log.Printf("reason: %s", snap.Reason)
	}

	if dump {
		pp.Println(snap.Emails)
	} else {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap.Emails); err != nil {
			log.Fatalf("Error encoding records: %v", err)
		}
	}

	if snap.Status != inbox.StatusOK {
		os.Exit(1)
	}
}

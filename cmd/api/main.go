package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/k0kubun/pp/v3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/masa23/crmmail/api"
	"github.com/masa23/crmmail/config"
	"github.com/masa23/crmmail/inbox"
	"github.com/masa23/crmmail/mailfetch"
	"github.com/masa23/crmmail/mailope"
	"github.com/masa23/crmmail/mailsend"
	"github.com/masa23/crmmail/mailtemplate"
	"github.com/masa23/crmmail/model"
	"github.com/masa23/crmmail/objectstorage"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	conf    *config.Config
	version = "dev"
)

func openJournal() *mailope.Journal {
	if conf.Database == "" {
		log.Printf("Database not configured, sent journal disabled")
		return nil
	}

	db, err := gorm.Open(mysql.Open(conf.Database), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if !conf.ObjectStorage.Enabled() {
		return mailope.NewJournal(db, nil)
	}
	s3Client, err := objectstorage.NewS3Client(conf.ObjectStorage)
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}
	return mailope.NewJournal(db, objectstorage.Bucket{Client: s3Client, Name: conf.ObjectStorage.Bucket})
}

func main() {
	var confPath string
	var envPath string
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.StringVar(&confPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&envPath, "env", ".env", "Path to .env file")
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

	if conf.LogFile != "" {
		logFd, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}
		defer logFd.Close()
		log.SetOutput(logFd)
	}

	account, ok := conf.DefaultAccount()
	if !ok {
		log.Fatal(config.ErrNoAccount)
	}
	for _, a := range conf.ActiveAccounts() {
		log.Println(pp.Sprintf("account: %v", a.Summary()))
	}

	source := mailope.NewMailboxSource(account, conf.FetchLimit, conf.FetchTimeout)
	server := &api.Server{
		Accounts:     conf,
		Inbox:        inbox.New(source, conf.CacheDuration),
		Templates:    mailtemplate.NewEngine(mailtemplate.NewBuiltinStore()),
		Sender:       mailsend.SMTPSender{},
		Prober:       mailfetch.NewClient(account),
		Journal:      openJournal(),
		SendTimeout:  conf.FetchTimeout,
		ProbeTimeout: conf.FetchTimeout,
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	server.Register(e)
	log.Printf("start api server pid=%d listen=%s mailbox=%s", os.Getpid(), conf.Listen, account.Email)
	e.Logger.Fatal(e.Start(conf.Listen))
}

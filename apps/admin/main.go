package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/analytics"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/session"
	logsvc "github.com/trezcool/masomo/services/logger"
	"github.com/trezcool/masomo/storage/database/inmem"
	"github.com/trezcool/masomo/storage/identity"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	rollbarLogger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger = rollbarLogger

	// set up DB & services
	db, err := inmemdb.OpenSeeded()
	errAndDie(err)
	repo := inmemdb.NewSchoolRepository(db)
	count, err := repo.CountMarks()
	errAndDie(err)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	school.InitValidators(validate, translator)

	svc := school.NewService(repo, school.NewIDGenerator(conf.Marks.IDScheme, count), validate, logger)
	auth := session.NewAuthenticator(session.NewVerifier(conf.Auth), session.NewCannedDirectory(), conf.Auth.LoginDelay)

	// start CLI
	cli := commandLine{
		out:        os.Stdout,
		svc:        svc,
		engine:     analytics.NewEngine(svc),
		session:    session.NewManager(auth, identity.NewFileStore(conf.IdentityFile), logger),
		translator: translator,
	}
	err = cli.run(os.Args)
	rollbarLogger.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", cli.describe(err))
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}

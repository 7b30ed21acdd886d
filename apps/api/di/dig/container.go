package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/masomo/apps/api/echo"
	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/analytics"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/session"
	logsvc "github.com/trezcool/masomo/services/logger"
	"github.com/trezcool/masomo/storage/database/inmem"
	"github.com/trezcool/masomo/storage/identity"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDB(loggerParam DBLoggerParam) *inmemdb.DB {
	db, err := inmemdb.OpenSeeded()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newIDGenerator(conf *core.Config, repo school.Repository, loggerParam DBLoggerParam) school.IDGenerator {
	count, err := repo.CountMarks()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("counting marks: %v", err), err)
	}
	return school.NewIDGenerator(conf.Marks.IDScheme, count)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	school.InitValidators(validate, translator)
	return validate
}

func newEngine(svc *school.Service) *analytics.Engine {
	return analytics.NewEngine(svc)
}

func newAuthenticator(conf *core.Config) *session.Authenticator {
	return session.NewAuthenticator(session.NewVerifier(conf.Auth), session.NewCannedDirectory(), conf.Auth.LoginDelay)
}

// newStoreFactory keeps API sessions in Redis when configured, in memory otherwise.
func newStoreFactory(conf *core.Config, logger core.Logger) session.StoreFactory {
	if conf.Redis.Address == "" {
		return identity.NewMemoryStores().Open
	}
	client, err := identity.NewRedisClient(context.Background(), conf.Redis)
	if err != nil {
		logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
	}
	return identity.RedisStores(client, conf.Redis.Prefix)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(inmemdb.NewSchoolRepository))
	must(c.Provide(newIDGenerator))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(school.NewService))
	must(c.Provide(newEngine))
	must(c.Provide(newAuthenticator))
	must(c.Provide(newStoreFactory))
	must(c.Provide(func(
		conf *core.Config,
		logger core.Logger,
		svc *school.Service,
		engine *analytics.Engine,
		auth *session.Authenticator,
		stores session.StoreFactory,
		validate *validator.Validate,
		translator ut.Translator,
	) echoapi.ServerDeps {
		return echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			SchoolSvc:  svc,
			Engine:     engine,
			Auth:       auth,
			Stores:     stores,
			Validate:   validate,
			Translator: translator,
		}
	}))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

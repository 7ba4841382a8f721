package connection

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamboard/config"
	"teamboard/controller"
	"teamboard/controller/admin"
	"teamboard/controller/auth"
	"teamboard/controller/department"
	"teamboard/controller/notification"
	"teamboard/controller/recurrence"
	"teamboard/controller/schedule"
	"teamboard/controller/task"
	"teamboard/controller/template"
	"teamboard/controller/user"
	"teamboard/dto"
	"teamboard/model"
	"teamboard/repository"
	"teamboard/repository/firestore"
	"teamboard/repository/memory"
	"teamboard/repository/sqlstore"
	"teamboard/scheduler"
	"teamboard/services"
)

func StartServer(cfg config.Config) {
	ctx := context.Background()

	store, sender, closeFn, err := OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeFn()

	if err := BootstrapSuperuser(ctx, store.Users, cfg.SuperuserEmail, cfg.SuperuserPassword); err != nil {
		log.Fatalf("Failed to bootstrap superuser: %v", err)
	}

	deps := NewDeps(store, services.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL), sender)
	cron, err := scheduler.StartScheduler(cfg.RecurrenceCron, deps.Recurrence)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer cron.Stop()
	defer deps.Notifier.Wait()

	router := NewRouter(cfg, deps)
	if err := router.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server stopped: %v", err)
	}
}

// OpenStore selects the repositories for cfg.StoreDriver and, with Firebase
// credentials, the FCM sender. The returned func releases the connections.
func OpenStore(ctx context.Context, cfg config.Config) (*repository.Store, services.Sender, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Println("Using the in-memory store; data is lost on restart")
		return memory.New().Repositories(), services.NoopSender{}, func() {}, nil
	}

	db, err := DBConnection(cfg.MySQLDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	users := sqlstore.NewUserRepository(db)
	if err := users.Migrate(); err != nil {
		return nil, nil, nil, err
	}

	app, client, err := FBConnection(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	var sender services.Sender = services.NoopSender{}
	if fcm, err := services.NewFCMSender(ctx, app); err != nil {
		log.Printf("Push notifications disabled: %v", err)
	} else {
		sender = fcm
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Printf("close firestore: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return firestore.New(client).Repositories(users), sender, closeFn, nil
}

func NewDeps(store *repository.Store, tokens *services.TokenManager, sender services.Sender) *controller.Deps {
	notifier := services.NewNotifier(store.Subscriptions, sender)
	return &controller.Deps{
		Store:      store,
		Tokens:     tokens,
		Tasks:      services.NewTaskService(store, notifier),
		Recurrence: services.NewRecurrenceGenerator(store, notifier),
		Notifier:   notifier,
	}
}

// NewRouter registers every controller on a fresh engine.
func NewRouter(cfg config.Config, deps *controller.Deps) *gin.Engine {
	if err := dto.RegisterValidations(); err != nil {
		log.Fatalf("Failed to register validations: %v", err)
	}

	router := gin.Default()
	if len(cfg.CORSOrigins) == 0 {
		router.Use(cors.Default())
	} else {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	auth.AuthController(router, deps)
	auth.InviteController(router, deps)
	user.UserController(router, deps)
	admin.AdminController(router, deps)
	department.DepartmentController(router, deps)
	task.TaskController(router, deps)
	recurrence.RecurrenceController(router, deps)
	notification.NotificationController(router, deps)
	schedule.ScheduleController(router, deps)
	template.TemplateController(router, deps)

	return router
}

// BootstrapSuperuser creates the configured superuser on first start, or
// promotes the existing account with that email.
func BootstrapSuperuser(ctx context.Context, users repository.UserRepository, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsSuperuser {
			return nil
		}
		return users.Update(ctx, existing.ID, map[string]interface{}{repository.ColumnIsSuperuser: true})
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	if password == "" {
		return errors.New("SUPERUSER_PASSWORD is required to create the superuser")
	}
	hashed, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	log.Printf("Creating superuser %s", email)
	return users.Create(ctx, &model.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashed,
		Name:           "Superuser",
		IsAdmin:        true,
		IsSuperuser:    true,
	})
}

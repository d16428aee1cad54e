package dao_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/uniclub/uniclub-api/internal/repository/dao"
)

var testDB *gorm.DB

// TestMain starts a throwaway Postgres container for the whole package.
// Run with -short to skip the container-backed tests.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("dockertest unavailable, skipping dao tests: %v", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=uniclub",
			"POSTGRES_PASSWORD=uniclub",
			"POSTGRES_DB=uniclub_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Printf("could not start postgres container, skipping dao tests: %v", err)
		os.Exit(0)
	}
	resource.Expire(180)

	dsn := fmt.Sprintf("host=localhost port=%s user=uniclub password=uniclub dbname=uniclub_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, dbErr := testDB.DB()
		if dbErr != nil {
			return dbErr
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	if testDB == nil {
		t.Skip("no test database")
	}
}

func seedProduct(t *testing.T, name, priceStr, quantity string) dao.Product {
	t.Helper()

	price, err := decimal.NewFromString(priceStr)
	require.NoError(t, err)

	product := dao.Product{
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}
	require.NoError(t, testDB.Create(&product).Error)

	return product
}

func productQuantity(t *testing.T, id uint) string {
	t.Helper()

	var product dao.Product
	require.NoError(t, testDB.First(&product, id).Error)

	return product.Quantity
}

func buildOrder(userID uint, reference string, lines ...dao.OrderLine) dao.Order {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}

	return dao.Order{
		Reference: reference,
		UserID:    userID,
		Status:    "PENDING",
		Total:     total,
		Lines:     lines,
		OrderedAt: time.Now(),
	}
}

func TestOrderDAO_InsertWithStockDecrements(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	orderDAO := dao.NewOrderDAO(testDB)

	t.Run("decrements numeric stock", func(t *testing.T) {
		product := seedProduct(t, "Hoodie", "25.00", "5")

		order, err := orderDAO.InsertWithStockDecrements(ctx,
			buildOrder(1, "ORD-TEST0001", dao.OrderLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  2,
				UnitPrice: product.Price,
				LineTotal: product.Price.Mul(decimal.NewFromInt(2)),
			}),
			[]dao.StockDecrement{{ProductID: product.ID, Quantity: 2}},
		)
		require.NoError(t, err)

		assert.NotZero(t, order.ID)
		assert.Equal(t, "3", productQuantity(t, product.ID))
	})

	t.Run("oversell rolls the whole order back", func(t *testing.T) {
		product := seedProduct(t, "Mug", "8.00", "1")

		_, err := orderDAO.InsertWithStockDecrements(ctx,
			buildOrder(1, "ORD-TEST0002", dao.OrderLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  2,
				UnitPrice: product.Price,
				LineTotal: product.Price.Mul(decimal.NewFromInt(2)),
			}),
			[]dao.StockDecrement{{ProductID: product.ID, Quantity: 2}},
		)

		assert.ErrorIs(t, err, dao.ErrInsufficientStock)
		assert.Equal(t, "1", productQuantity(t, product.ID))

		var count int64
		require.NoError(t, testDB.Model(&dao.Order{}).Where("reference = ?", "ORD-TEST0002").Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("textual quantity never matches the decrement condition", func(t *testing.T) {
		product := seedProduct(t, "Cookie", "1.50", "fresh daily")

		_, err := orderDAO.InsertWithStockDecrements(ctx,
			buildOrder(1, "ORD-TEST0003", dao.OrderLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  1,
				UnitPrice: product.Price,
				LineTotal: product.Price,
			}),
			[]dao.StockDecrement{{ProductID: product.ID, Quantity: 1}},
		)

		// The caller is expected to filter untracked products out; if one
		// slips through the condition fails closed.
		assert.ErrorIs(t, err, dao.ErrInsufficientStock)
		assert.Equal(t, "fresh daily", productQuantity(t, product.ID))
	})
}

func TestOrderDAO_UpdateStatus(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	orderDAO := dao.NewOrderDAO(testDB)

	order, err := orderDAO.InsertWithStockDecrements(ctx, buildOrder(2, "ORD-TEST0004"), nil)
	require.NoError(t, err)

	require.NoError(t, orderDAO.UpdateStatus(ctx, order.ID, "CONFIRMED"))

	found, err := orderDAO.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", found.Status)

	assert.ErrorIs(t, orderDAO.UpdateStatus(ctx, 99999, "CANCELLED"), dao.ErrOrderNotFound)
}

func TestUserDAO_UniqueEmail(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	userDAO := dao.NewUserDAO(testDB)

	_, err := userDAO.Insert(ctx, dao.User{
		Email:    "dup@example.edu",
		Password: "hashed",
		Name:     "First",
		Role:     "student",
	})
	require.NoError(t, err)

	_, err = userDAO.Insert(ctx, dao.User{
		Email:    "dup@example.edu",
		Password: "hashed",
		Name:     "Second",
		Role:     "student",
	})
	assert.ErrorIs(t, err, dao.ErrUserEmailExists)
}

func TestPollDAO_UpsertResponse(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	pollDAO := dao.NewPollDAO(testDB)

	poll, err := pollDAO.Insert(ctx, dao.Poll{
		Question:  "Best study spot on campus?",
		CreatorID: 1,
		Choices: []dao.Choice{
			{Content: "Library"},
			{Content: "Cafeteria"},
		},
	})
	require.NoError(t, err)
	require.Len(t, poll.Choices, 2)

	_, err = pollDAO.UpsertResponse(ctx, dao.Response{
		PollID:   poll.ID,
		ChoiceID: poll.Choices[0].ID,
		UserID:   42,
		VotedAt:  time.Now(),
	})
	require.NoError(t, err)

	// Revote: the previous response must be replaced, not duplicated.
	_, err = pollDAO.UpsertResponse(ctx, dao.Response{
		PollID:   poll.ID,
		ChoiceID: poll.Choices[1].ID,
		UserID:   42,
		VotedAt:  time.Now(),
	})
	require.NoError(t, err)

	responses, err := pollDAO.ListResponses(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, poll.Choices[1].ID, responses[0].ChoiceID)
}

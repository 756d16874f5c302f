package db

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"itemseek-backend/config"
	"itemseek-backend/internal/model"
)

func TestInit_LogsThroughLogrus(t *testing.T) {
	testCases := []struct {
		name    string
		logSQL  bool
		wantSQL bool
	}{
		{name: "Statements logged when enabled", logSQL: true, wantSQL: true},
		{name: "Quiet by default", logSQL: false, wantSQL: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			log := logrus.New()
			log.SetOutput(&out)
			log.SetLevel(logrus.InfoLevel)

			gormDB, err := Init(&config.DatabaseConfig{
				Driver: "sqlite",
				DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
				LogSQL: tc.logSQL,
			}, log)
			require.NoError(t, err)
			sqlDB, err := gormDB.DB()
			require.NoError(t, err)
			t.Cleanup(func() { sqlDB.Close() })

			out.Reset()
			var room model.Room
			err = gormDB.Where("number = ?", "404").First(&room).Error
			require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

			logged := out.String()
			assert.NotContains(t, logged, "record not found")
			if tc.wantSQL {
				assert.Contains(t, logged, "component=gorm")
				assert.Contains(t, logged, "SELECT")
			} else {
				assert.Empty(t, logged)
			}
		})
	}
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mingle/db"
	"mingle/rdx"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// recordingHook captures redis command names without dialing anything.
type recordingHook struct {
	cmds *[]string
}

func (h recordingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h recordingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		*h.cmds = append(*h.cmds, cmd.Name())
		return nil
	}
}

func (h recordingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return nil
	}
}

func TestRegisterDoesNotCacheUsernameWhenInsertFails(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("failed insert leaves no username cache entry", func(mt *mtest.T) {
		prevUsers := db.UserCollection
		db.UserCollection = mt.Coll
		defer func() { db.UserCollection = prevUsers }()

		var cmds []string
		prevConn := rdx.Conn
		rdx.Conn = redis.NewClient(&redis.Options{Addr: "localhost:6379"})
		rdx.Conn.AddHook(recordingHook{cmds: &cmds})
		defer func() { rdx.Conn = prevConn }()

		mt.AddMockResponses(
			// no existing user with that name
			mtest.CreateCursorResponse(0, "outingdb.users", mtest.FirstBatch),
			// the insert itself fails
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "insert failed"}),
		)

		body := strings.NewReader(`{"username":"casey","email":"casey@example.com","password":"hunter22"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
		w := httptest.NewRecorder()

		Register(w, req, nil)

		if w.Code != http.StatusInternalServerError {
			mt.Fatalf("expected status 500, got %d", w.Code)
		}
		for _, name := range cmds {
			if name == "set" {
				mt.Fatal("username cached for a user that was never created")
			}
		}
	})
}

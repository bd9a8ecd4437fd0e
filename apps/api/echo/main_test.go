package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	. "github.com/trezcool/eden/apps/api/echo"
	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/core/subject"
	logsvc "github.com/trezcool/eden/services/logger"
	inmemdb "github.com/trezcool/eden/storage/database/inmem"
)

// Wednesday 2024-01-03, 10:00 UTC
var now = time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC)

type fixture struct {
	app        *Server
	db         *inmemdb.DB
	periodSvc  *period.Service
	periodRepo period.Repository
	sbjRepo    subject.Repository
}

func setup(t *testing.T) fixture {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := &core.Config{
		Env:      "TEST",
		TestMode: true,
		Server:   core.ServerConfig{DisableReqLogs: true},
		Period:   core.PeriodConfig{SessionLength: period.DefaultSessionLength, Timezone: "UTC"},
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	period.InitValidators(validate, translator)

	f := fixture{
		db:         db,
		periodRepo: inmemdb.NewPeriodRepository(db),
		sbjRepo:    inmemdb.NewSubjectRepository(db),
	}
	if f.periodSvc, err = period.NewService(f.periodRepo, f.sbjRepo, conf); err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	f.periodSvc.NowFunc = func() time.Time { return now }

	f.app = NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logsvc.NewRollbarLogger(zap.NewNop().Sugar(), conf),
		DB:         db,
		PeriodSvc:  f.periodSvc,
		SubjectSvc: subject.NewService(f.sbjRepo, f.periodRepo),
		Validate:   validate,
		Translator: translator,
	})
	return f
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app http.Handler, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newRequest(method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

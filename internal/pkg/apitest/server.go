package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/clock"
)

// Credentials seeded into every test server.
const (
	DefaultUserID   = "0198a5b0-1111-7aaa-8abc-000000000001"
	DefaultEmail    = "jordan@example.com"
	DefaultPassword = "password123"
)

// Server is an in-process stand-in for the HRIS backend. It carries the same
// middleware stack as the production router (CORS with credentials, request
// logging, bearer-token auth) so the client is exercised against realistic
// transport behavior, and it re-validates leave balances server-side the way
// the backend does.
type Server struct {
	URL string

	httpSrv   *httptest.Server
	tokenAuth *jwtauth.JWTAuth
	clock     clock.Clock

	mu           sync.Mutex
	userName     string
	balances     map[string]int
	passwordHash []byte
	dailyLogs    map[string]attendance.DailyLogResponse // key: userID + "|" + date
	openStale    bool
	records      []leave.RecordResponse
	failures     map[string]int // route key -> remaining forced failures
	requests     map[string]int // route key -> calls seen
	logSeq       int
	leaveSeq     int
}

// Option configures a test server.
type Option func(*Server)

// WithClock pins the server's notion of now, so check-in instants are
// deterministic.
func WithClock(clk clock.Clock) Option {
	return func(s *Server) { s.clock = clk }
}

// WithBalances seeds the default user's leave balances.
func WithBalances(balances map[string]int) Option {
	return func(s *Server) {
		s.balances = make(map[string]int, len(balances))
		for k, v := range balances {
			s.balances[k] = v
		}
	}
}

// New starts a test server. Callers must Close it.
func New(opts ...Option) *Server {
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)

	s := &Server{
		tokenAuth:    jwtauth.New("HS256", []byte("apitest-secret"), nil),
		clock:        clock.System(),
		userName:     "Jordan Smith",
		balances:     map[string]int{"pto": 5, "sick": 3},
		passwordHash: hash,
		dailyLogs:    make(map[string]attendance.DailyLogResponse),
		failures:     make(map[string]int),
		requests:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpSrv = httptest.NewServer(s.router())
	s.URL = s.httpSrv.URL
	return s
}

func (s *Server) Close() {
	s.httpSrv.Close()
}

func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()

	// Same middleware shape as the production router; logs go nowhere so
	// test output stays readable.
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(s.tokenAuth))
			r.Use(jwtauth.Authenticator(s.tokenAuth))

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/users/{id}", s.handleGetUser)
			r.Route("/timetrackers", func(r chi.Router) {
				r.Get("/daily-log/{userID}", s.handleDailyLog)
				r.Get("/monthly-log/{userID}", s.handleMonthlyLog)
				r.Get("/open-sessions", s.handleOpenSessions)
				r.Post("/check-in", s.handleCheckIn)
				r.Post("/check-out", s.handleCheckOut)
			})
			r.Post("/leaves", s.handleSubmitLeave)
		})
	})

	return r
}

// FailNext forces the next n calls to the named route ("check-in",
// "check-out", "daily-log", "leaves", "users") to answer 500.
func (s *Server) FailNext(route string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = n
}

func (s *Server) shouldFail(route string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[route] > 0 {
		s.failures[route]--
		return true
	}
	return false
}

// Requests returns how many calls the named route has seen.
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

func (s *Server) count(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[route]++
}

// SetOpenStaleSessions controls the open-sessions reminder flag.
func (s *Server) SetOpenStaleSessions(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openStale = v
}

// SeedDailyLog installs an attendance record ahead of client initialization.
func (s *Server) SeedDailyLog(log attendance.DailyLogResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyLogs[log.UserID+"|"+log.Date] = log
}

// Balances returns a copy of the server-side balances.
func (s *Server) Balances() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.balances))
	for k, v := range s.balances {
		out[k] = v
	}
	return out
}

// Records returns the leave applications accepted so far.
func (s *Server) Records() []leave.RecordResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]leave.RecordResponse(nil), s.records...)
}

func (s *Server) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Server) userResponse() user.Response {
	history := append([]leave.RecordResponse(nil), s.records...)
	balances := make(map[string]int, len(s.balances))
	for k, v := range s.balances {
		balances[k] = v
	}
	return user.Response{
		ID:           DefaultUserID,
		Name:         s.userName,
		Email:        DefaultEmail,
		Leaves:       balances,
		LeaveHistory: history,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.count("login")
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Email != DefaultEmail ||
		bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
		return
	}

	// exp must track wall-clock time: the verifier middleware validates it
	// against real time, not the injected clock.
	_, token, _ := s.tokenAuth.Encode(map[string]interface{}{
		"user_id": DefaultUserID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	http.SetCookie(w, &http.Cookie{Name: "hris_session", Value: token, HttpOnly: true})
	success(w, map[string]interface{}{
		"access_token": token,
		"user":         s.userResponse(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "hris_session", Value: "", MaxAge: -1})
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Logged out"})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.count("users")
	if s.shouldFail("users") {
		fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
		return
	}

	if chi.URLParam(r, "id") != DefaultUserID {
		fail(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	success(w, s.userResponse())
}

func (s *Server) handleDailyLog(w http.ResponseWriter, r *http.Request) {
	s.count("daily-log")
	if s.shouldFail("daily-log") {
		fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
		return
	}

	userID := chi.URLParam(r, "userID")
	today := s.now().Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.dailyLogs[userID+"|"+today]
	if !ok {
		fail(w, http.StatusNotFound, "NOT_FOUND", "No attendance record for today")
		return
	}
	success(w, log)
}

func (s *Server) handleMonthlyLog(w http.ResponseWriter, r *http.Request) {
	s.count("monthly-log")
	userID := chi.URLParam(r, "userID")
	month := r.URL.Query().Get("month")

	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]attendance.DailyLogResponse, 0)
	for _, log := range s.dailyLogs {
		if log.UserID == userID && len(log.Date) >= 7 && log.Date[:7] == month {
			logs = append(logs, log)
		}
	}
	success(w, logs)
}

func (s *Server) handleOpenSessions(w http.ResponseWriter, r *http.Request) {
	s.count("open-sessions")
	s.mu.Lock()
	defer s.mu.Unlock()
	success(w, attendance.OpenSessionsResponse{HasOpenSessions: s.openStale})
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	s.count("check-in")
	if s.shouldFail("check-in") {
		fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
		return
	}

	userID := authUserID(r)
	now := s.now()
	today := now.Format("2006-01-02")
	key := userID + "|" + today

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.dailyLogs[key]; ok && existing.CheckOutTime == nil {
		fail(w, http.StatusConflict, "CONFLICT", "you have already checked in today")
		return
	}

	s.logSeq++
	log := attendance.DailyLogResponse{
		ID:          recordID("att", s.logSeq),
		UserID:      userID,
		Date:        today,
		CheckInTime: now,
		Status:      "open",
	}
	s.dailyLogs[key] = log

	created(w, "Attendance recorded", attendance.CheckInResponse{
		Log:     log,
		Message: "Checked in at " + now.Format("15:04"),
	})
}

func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	s.count("check-out")
	if s.shouldFail("check-out") {
		fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
		return
	}

	now := s.now()
	key := authUserID(r) + "|" + now.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.dailyLogs[key]
	if !ok || log.CheckOutTime != nil {
		fail(w, http.StatusConflict, "CONFLICT", "you have not checked in yet")
		return
	}

	minutes := int(now.Sub(log.CheckInTime).Minutes())
	log.CheckOutTime = &now
	log.WorkMinutes = &minutes
	log.Status = "closed"
	s.dailyLogs[key] = log

	success(w, attendance.CheckOutResponse{Message: "Checked out successfully"})
}

func (s *Server) handleSubmitLeave(w http.ResponseWriter, r *http.Request) {
	s.count("leaves")
	if s.shouldFail("leaves") {
		fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
		return
	}

	var req leave.CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed request body")
		return
	}
	if err := req.Validate(); err != nil {
		fail(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if end.Before(start) {
		start, end = end, start
	}
	days := int(end.Sub(start).Hours()/24) + 1

	s.mu.Lock()
	defer s.mu.Unlock()

	// Authoritative re-check, independent of whatever the client believed.
	key := leave.BalanceKey(req.LeaveType)
	if days > s.balances[key] {
		fail(w, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Insufficient leave balance")
		return
	}
	s.balances[key] -= days

	s.leaveSeq++
	record := leave.RecordResponse{
		ID:        recordID("lv", s.leaveSeq),
		UserID:    authUserID(r),
		LeaveType: req.LeaveType,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Days:      days,
		Reason:    req.Reason,
		Status:    leave.StatusPending,
		CreatedAt: s.now(),
	}
	s.records = append(s.records, record)

	created(w, "Leave request submitted", record)
}

func recordID(prefix string, seq int) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// authUserID resolves the caller from the verified token, like the
// production auth middleware does.
func authUserID(r *http.Request) string {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return ""
	}
	return claimString(token, "user_id")
}

func claimString(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

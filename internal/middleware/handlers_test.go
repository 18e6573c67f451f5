package middleware_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Emannuh254/Forexpro/internal/config"
	"github.com/Emannuh254/Forexpro/internal/database"
	routes "github.com/Emannuh254/Forexpro/internal/server"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func setupRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("error al abrir la base de prueba: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.CreateTables(db); err != nil {
		t.Fatalf("error al crear las tablas: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Port:                  "8080",
		JWTSecret:             "test-secret",
		USDToKSH:              150.0,
		SignupBonusKSH:        200,
		MinReferralDepositKSH: 10000,
		DemoBalanceUSD:        66.67,
		DepositAddress:        "0x081fc7d993439f0aa44e8d9514c00d0b560fb940",
		DepositNetwork:        "BSC",
		BotCycleDays:          30,
	}

	router := gin.New()
	routes.RegisterRoutes(router, db, cfg)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("error al serializar el cuerpo: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("respuesta no es JSON: %v (%s)", err, w.Body.String())
	}
	return body
}

func signupUser(t *testing.T, router *gin.Engine, email string) (token, userID string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Jane Wanjiku",
		"email":    email,
		"password": "secreto123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup devolvió %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	return body["token"].(string), user["id"].(string)
}

func TestSignupGrantsWelcomeBonus(t *testing.T) {
	router, db := setupRouter(t)

	token, userID := signupUser(t, router, "jane@test.com")
	if token == "" {
		t.Fatal("el registro debe devolver un token")
	}

	var balance float64
	if err := db.QueryRow(`SELECT balance FROM users WHERE id = ?`, userID).Scan(&balance); err != nil {
		t.Fatal(err)
	}
	if balance != 200 {
		t.Errorf("balance inicial = %v, se esperaba el bono de 200 KSH", balance)
	}

	// El bono queda auditado
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE user_id = ? AND type = 'bonus' AND method = 'signup'`,
		userID,
	).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("se esperaba 1 transacción de bono, hay %d", count)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	router, _ := setupRouter(t)
	signupUser(t, router, "jane@test.com")

	w := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Otra Persona",
		"email":    "jane@test.com",
		"password": "secreto123",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("email duplicado devolvió %d, se esperaba 400", w.Code)
	}
}

func TestLogin(t *testing.T) {
	router, _ := setupRouter(t)
	signupUser(t, router, "jane@test.com")

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "jane@test.com",
		"password": "secreto123",
	})
	if w.Code != http.StatusOK {
		t.Errorf("login devolvió %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "jane@test.com",
		"password": "incorrecta",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("contraseña incorrecta devolvió %d, se esperaba 401", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/user/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("sin token devolvió %d, se esperaba 401", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/user/profile", "token-invalido", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("token inválido devolvió %d, se esperaba 401", w.Code)
	}
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	router, _ := setupRouter(t)
	token, _ := signupUser(t, router, "jane@test.com")

	w := doJSON(t, router, http.MethodGet, "/api/admin/stats", token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("usuario común en ruta admin devolvió %d, se esperaba 403", w.Code)
	}
}

func TestDepositFlowWithAdminApproval(t *testing.T) {
	router, db := setupRouter(t)
	token, userID := signupUser(t, router, "jane@test.com")

	// El depósito queda pendiente, sin acreditar
	w := doJSON(t, router, http.MethodPost, "/api/deposit", token, gin.H{
		"amount":   5000,
		"method":   "mpesa",
		"currency": "KSH",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("deposit devolvió %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	txID := body["transaction_id"].(string)

	var balance float64
	if err := db.QueryRow(`SELECT balance FROM users WHERE id = ?`, userID).Scan(&balance); err != nil {
		t.Fatal(err)
	}
	if balance != 200 {
		t.Errorf("un depósito pendiente no acredita: balance %v", balance)
	}

	// Crear un admin directo en la base y aprobar
	if err := database.SeedAdmin(db, "admin@forexpro.com", "admin123"); err != nil {
		t.Fatal(err)
	}
	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@forexpro.com",
		"password": "admin123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login de admin devolvió %d: %s", w.Code, w.Body.String())
	}
	adminToken := decodeBody(t, w)["token"].(string)

	w = doJSON(t, router, http.MethodPut, "/api/admin/transactions/"+txID, adminToken, gin.H{
		"status": "completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("aprobar el depósito devolvió %d: %s", w.Code, w.Body.String())
	}

	if err := db.QueryRow(`SELECT balance FROM users WHERE id = ?`, userID).Scan(&balance); err != nil {
		t.Fatal(err)
	}
	if balance != 5200 {
		t.Errorf("balance tras aprobar = %v, se esperaba 5200", balance)
	}
}

func TestCryptoDepositReturnsPlatformAddress(t *testing.T) {
	router, _ := setupRouter(t)
	token, _ := signupUser(t, router, "jane@test.com")

	w := doJSON(t, router, http.MethodPost, "/api/deposit", token, gin.H{
		"amount":   100,
		"method":   "crypto",
		"currency": "USD",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("deposit devolvió %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["deposit_address"] != "0x081fc7d993439f0aa44e8d9514c00d0b560fb940" {
		t.Errorf("dirección de depósito incorrecta: %v", body["deposit_address"])
	}
	if body["network"] != "BSC" {
		t.Errorf("red por defecto incorrecta: %v", body["network"])
	}
}

func TestDemoLoginCreatesAccount(t *testing.T) {
	router, db := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/demo", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("demo login devolvió %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})

	var role string
	var balance float64
	err := db.QueryRow(`SELECT role, balance FROM users WHERE id = ?`, user["id"]).Scan(&role, &balance)
	if err != nil {
		t.Fatal(err)
	}
	if role != "demo" {
		t.Errorf("rol = %v, se esperaba demo", role)
	}
	if balance != 66.67 {
		t.Errorf("balance demo = %v, se esperaba 66.67", balance)
	}
}

func TestBotPurchaseOverHTTP(t *testing.T) {
	router, db := setupRouter(t)
	token, userID := signupUser(t, router, "jane@test.com")

	// Fondear la cuenta por fuera para poder comprar
	if _, err := db.Exec(`UPDATE users SET balance = 50000 WHERE id = ?`, userID); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/bots", token, gin.H{
		"name":       "Falcon",
		"investment": 10000,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("crear bot devolvió %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["expected_return"] != "KSH 23000.00" {
		t.Errorf("retorno esperado incorrecto: %v", body["expected_return"])
	}

	// Sin fondos suficientes la compra se rechaza
	w = doJSON(t, router, http.MethodPost, "/api/bots", token, gin.H{
		"name":       "Falcon",
		"investment": 999999,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("compra sin fondos devolvió %d, se esperaba 400", w.Code)
	}
}

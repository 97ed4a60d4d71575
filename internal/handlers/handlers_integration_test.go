package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"gaspedidos/internal/handlers"
	"gaspedidos/internal/middleware"
	"gaspedidos/internal/models"
	"gaspedidos/internal/repositories"
	"gaspedidos/internal/services"
	"gaspedidos/pkg/payments"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv bundles the app with the pieces tests poke at directly.
type testEnv struct {
	app         *fiber.App
	authService *services.AuthService
	productRepo repositories.ProductRepository
}

// setupApp builds a Fiber app backed by in-memory SQLite, mock cart storage,
// and httptest payment gateways wired through the real handlers and services.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// One named in-memory database per test: shared across the pool's
	// connections, isolated between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Pedido{},
		&models.UserLocation{},
		&models.Mensaje{},
		&models.TransbankPayment{},
		&models.KhipuPayment{},
	))

	// Repositories: GORM where the flow touches the database, mocks for the
	// cart (Redis-backed in production).
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	pedidoRepo := repositories.NewGORMPedidoRepository(db)
	locationRepo := repositories.NewGORMLocationRepository(db)
	mensajeRepo := repositories.NewGORMMensajeRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	cartRepo := repositories.NewMockCartRepository()

	// Gateway double that authorizes every transaction.
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/transbank/create":
			json.NewEncoder(w).Encode(map[string]string{"url": "https://webpay.example/init", "token": "tbk-ok"})
		case r.URL.Path == "/create":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"payment": map[string]string{"payment_id": "khipu-ok", "payment_url": "https://khipu.example/pay"},
			})
		case r.URL.Path == "/transbank/get/tbk-ok":
			json.NewEncoder(w).Encode(map[string]interface{}{"response_code": 0, "amount": 24000, "status": "AUTHORIZED"})
		default:
			json.NewEncoder(w).Encode(map[string]interface{}{"payment_id": "khipu-ok", "status": "done", "amount": 24000})
		}
	}))
	t.Cleanup(gatewayServer.Close)

	// Services
	locationService := services.NewLocationService(locationRepo)
	cartService := services.NewCartService(cartRepo, locationService)
	productService := services.NewProductService(productRepo)
	authService := services.NewAuthService(userRepo, jwtSecret)
	pedidoService := services.NewPedidoService(pedidoRepo, productRepo, userRepo, locationService, cartService, nil, nil)
	chatService := services.NewChatService(mensajeRepo, pedidoRepo)
	paymentService := services.NewPaymentService(
		payments.NewTransbankClient(gatewayServer.URL, nil),
		payments.NewKhipuClient(gatewayServer.URL, nil),
		paymentRepo,
		"https://app.example/return",
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, productService, locationService)
	pedidoHandler := handlers.NewPedidoHandler(pedidoService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, pedidoService, cartService)
	chatHandler := handlers.NewChatHandler(chatService)
	locationHandler := handlers.NewLocationHandler(locationService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	productHandler.RegisterRoutes(protectedRoutes)
	cartHandler.RegisterRoutes(protectedRoutes)
	pedidoHandler.RegisterRoutes(protectedRoutes)
	paymentHandler.RegisterRoutes(protectedRoutes)
	chatHandler.RegisterRoutes(protectedRoutes)
	locationHandler.RegisterRoutes(protectedRoutes)

	return &testEnv{app: app, authService: authService, productRepo: productRepo}
}

// TestMain suppresses handler logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doJSON sends a JSON request and decodes the response body into out (when
// out is non-nil).
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	resp.Body.Close()
	return resp
}

// registerAndLogin creates an identity and returns its JWT and ID.
func registerAndLogin(t *testing.T, env *testEnv, username, rol string) (token string, userID string) {
	t.Helper()

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"nombre":   "Identidad " + username,
		"rol":      rol,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var loginResp map[string]string
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	}, &loginResp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, loginResp["token"])

	claims, err := env.authService.ValidateToken(loginResp["token"])
	require.NoError(t, err)
	return loginResp["token"], claims["user_id"].(string)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupApp(t)

	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
		"nombre":   "Test User",
		"rol":      models.RolUsuario,
	}
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "", userToRegister, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate registration conflicts.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "", userToRegister, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var loginResp map[string]string
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "password123",
	}, &loginResp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, loginResp["token"])

	claims, err := env.authService.ValidateToken(loginResp["token"])
	assert.NoError(t, err)
	assert.Equal(t, "testuser", claims["username"])
	assert.Equal(t, models.RolUsuario, claims["rol"])

	// Wrong password is rejected.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := setupApp(t)

	for _, path := range []string{"/api/v1/products", "/api/v1/cart", "/api/v1/pedidos"} {
		resp := doJSON(t, env.app, http.MethodGet, path, "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestCatalogoManagement(t *testing.T) {
	env := setupApp(t)
	proveedorToken, _ := registerAndLogin(t, env, "gasexpress", models.RolProveedor)
	usuarioToken, _ := registerAndLogin(t, env, "cliente1", models.RolUsuario)

	newProduct := map[string]interface{}{
		"marca":   models.MarcaLipigas,
		"formato": models.Formato15Kg,
		"nombre":  "Cilindro Lipigas 15kg",
		"precio":  8000,
		"stock":   10,
	}

	// A consumer cannot create catalog entries.
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/products", usuarioToken, newProduct, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var created models.Product
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/products", proveedorToken, newProduct, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)

	// The same (marca, formato) pair conflicts within the catalog.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/products", proveedorToken, newProduct, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Browsing is open to any signed-in identity.
	var products []models.Product
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/products", usuarioToken, nil, &products)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, products, 1)
}

func TestCartFlow(t *testing.T) {
	env := setupApp(t)
	proveedorToken, proveedorID := registerAndLogin(t, env, "gasexpress", models.RolProveedor)
	usuarioToken, _ := registerAndLogin(t, env, "cliente1", models.RolUsuario)

	var producto models.Product
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/products", proveedorToken, map[string]interface{}{
		"marca":   models.MarcaAbastible,
		"formato": models.Formato11Kg,
		"nombre":  "Cilindro Abastible 11kg",
		"precio":  9000,
		"stock":   10,
	}, &producto)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	addItem := map[string]string{"productId": producto.ID}
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", usuarioToken, addItem, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Five units is the cap; the sixth add is rejected.
	for i := 0; i < 4; i++ {
		resp = doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", usuarioToken, addItem, nil)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", usuarioToken, addItem, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var cartResp struct {
		Items []models.CartItem `json:"items"`
		Total int               `json:"total"`
	}
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/cart", usuarioToken, nil, &cartResp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, 5, cartResp.Items[0].Cantidad)
	assert.Equal(t, 45000, cartResp.Total)

	// Out-of-range quantity update is rejected; in-range applies.
	resp = doJSON(t, env.app, http.MethodPatch, "/api/v1/cart/items/"+producto.ID, usuarioToken, map[string]int{"cantidad": 6}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodPatch, "/api/v1/cart/items/"+producto.ID, usuarioToken, map[string]int{"cantidad": 2}, &cartResp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 18000, cartResp.Total)

	resp = doJSON(t, env.app, http.MethodPut, "/api/v1/cart/proveedor", usuarioToken, map[string]string{"proveedorId": proveedorID}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckoutAndPedidoLifecycle(t *testing.T) {
	env := setupApp(t)
	proveedorToken, proveedorID := registerAndLogin(t, env, "gasexpress", models.RolProveedor)
	usuarioToken, _ := registerAndLogin(t, env, "cliente1", models.RolUsuario)

	var producto models.Product
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/products", proveedorToken, map[string]interface{}{
		"marca":   models.MarcaLipigas,
		"formato": models.Formato15Kg,
		"nombre":  "Cilindro Lipigas 15kg",
		"precio":  8000,
		"stock":   10,
	}, &producto)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Build a cart of three units and select the provider.
	for i := 0; i < 3; i++ {
		resp = doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", usuarioToken, map[string]string{"productId": producto.ID}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp = doJSON(t, env.app, http.MethodPut, "/api/v1/cart/proveedor", usuarioToken, map[string]string{"proveedorId": proveedorID}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Start and confirm the Transbank payment; the authorized confirm creates
	// the pedido.
	var intent payments.PaymentIntent
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/payments/transbank/create", usuarioToken, map[string]string{}, &intent)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "tbk-ok", intent.Token)

	var pedido models.Pedido
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/payments/transbank/confirm", usuarioToken, map[string]interface{}{
		"token": intent.Token,
		"pedido": map[string]interface{}{
			"nombreCliente": "María",
			"ubicacionCliente": map[string]interface{}{
				"direccion": "Calle Falsa 123",
				"lat":       -33.5,
				"lon":       -70.7,
			},
		},
	}, &pedido)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 24000, pedido.Precio)
	assert.Equal(t, models.EstadoPendiente, pedido.Estado)

	// The cart is emptied by the checkout.
	var cartResp struct {
		Items []models.CartItem `json:"items"`
		Total int               `json:"total"`
	}
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/cart", usuarioToken, nil, &cartResp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, cartResp.Items)

	// A consumer cannot accept pedidos.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/pedidos/"+pedido.ID+"/aceptar", usuarioToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The provider accepts; stock drops and the estado advances.
	var aceptado models.Pedido
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/pedidos/"+pedido.ID+"/aceptar", proveedorToken, nil, &aceptado)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.EstadoAceptado, aceptado.Estado)
	assert.NotNil(t, aceptado.TimestampAceptado)

	restante, err := env.productRepo.GetByID(producto.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, restante.Stock)

	// A second accept conflicts.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/pedidos/"+pedido.ID+"/aceptar", proveedorToken, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Chat opens with the accepted pedido.
	var mensaje models.Mensaje
	resp = doJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/v1/chats/%s/mensajes", pedido.ID), usuarioToken, map[string]string{
		"texto": "¿A qué hora llega?",
	}, &mensaje)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "¿A qué hora llega?", mensaje.Texto)

	// Arrival closes the pedido.
	var llegado models.Pedido
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/pedidos/"+pedido.ID+"/llegada", proveedorToken, nil, &llegado)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.EstadoLlegado, llegado.Estado)

	// Closed chat rejects new messages but keeps history readable.
	resp = doJSON(t, env.app, http.MethodPost, fmt.Sprintf("/api/v1/chats/%s/mensajes", pedido.ID), usuarioToken, map[string]string{
		"texto": "una cosa más",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var historial []models.Mensaje
	resp = doJSON(t, env.app, http.MethodGet, fmt.Sprintf("/api/v1/chats/%s/mensajes", pedido.ID), proveedorToken, nil, &historial)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, historial, 1)

	// Both sides see the pedido in their lists.
	var pedidosCliente []models.Pedido
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/pedidos", usuarioToken, nil, &pedidosCliente)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, pedidosCliente, 1)
	assert.Equal(t, models.EstadoLlegado, pedidosCliente[0].Estado)

	var pedidosProveedor []models.Pedido
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/pedidos", proveedorToken, nil, &pedidosProveedor)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, pedidosProveedor, 1)
}

func TestRechazoNoTocaStock(t *testing.T) {
	env := setupApp(t)
	proveedorToken, proveedorID := registerAndLogin(t, env, "gasexpress", models.RolProveedor)
	usuarioToken, _ := registerAndLogin(t, env, "cliente1", models.RolUsuario)

	var producto models.Product
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/products", proveedorToken, map[string]interface{}{
		"marca":   models.MarcaGasco,
		"formato": models.Formato5Kg,
		"nombre":  "Cilindro Gasco 5kg",
		"precio":  6000,
		"stock":   4,
	}, &producto)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/cart/items", usuarioToken, map[string]string{"productId": producto.ID}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodPut, "/api/v1/cart/proveedor", usuarioToken, map[string]string{"proveedorId": proveedorID}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var intent payments.PaymentIntent
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/payments/khipu/create", usuarioToken, map[string]string{}, &intent)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var pedido models.Pedido
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/payments/khipu/confirm", usuarioToken, map[string]interface{}{
		"token":  intent.Token,
		"pedido": map[string]interface{}{"nombreCliente": "María"},
	}, &pedido)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rechazado models.Pedido
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/pedidos/"+pedido.ID+"/rechazar", proveedorToken, nil, &rechazado)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.EstadoRechazado, rechazado.Estado)

	restante, err := env.productRepo.GetByID(producto.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, restante.Stock)

	// Rechazado is terminal: accepting afterwards conflicts.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/pedidos/"+pedido.ID+"/aceptar", proveedorToken, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLocations(t *testing.T) {
	env := setupApp(t)
	proveedorToken, proveedorID := registerAndLogin(t, env, "gasexpress", models.RolProveedor)
	usuarioToken, _ := registerAndLogin(t, env, "cliente1", models.RolUsuario)

	resp := doJSON(t, env.app, http.MethodPut, "/api/v1/locations/me", proveedorToken, map[string]interface{}{
		"direccion": "Av. Principal 100",
		"lat":       -33.45,
		"lon":       -70.66,
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var proveedores []models.UserLocation
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/locations/proveedores", usuarioToken, nil, &proveedores)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, proveedores, 1)
	assert.Equal(t, proveedorID, proveedores[0].UserID)
}

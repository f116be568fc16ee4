// cmd/web/main.go
package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/LuisEduardoPedra/calculoDI/internal/api/handlers"
	"github.com/LuisEduardoPedra/calculoDI/internal/api/middleware"
	"github.com/LuisEduardoPedra/calculoDI/internal/api/responses"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/auth"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/calculo"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/custos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/impostos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/incentivos"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/precificacao"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/rateio"
	"github.com/LuisEduardoPedra/calculoDI/internal/core/rates"
	"github.com/gin-gonic/gin"
)

// initFirestoreClient initializes the Firestore client.
func initFirestoreClient(ctx context.Context) *firestore.Client {
	projectID := "calculo-di-db"
	databaseID := "calculo-di-db"
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		log.Fatalf("Erro ao inicializar cliente Firestore para o banco '%s': %v\n", databaseID, err)
	}
	log.Printf("Conectado com sucesso ao Firestore, banco de dados: %s", databaseID)
	return client
}

func main() {
	responses.InitLogger()
	ctx := context.Background()
	firestoreClient := initFirestoreClient(ctx)
	defer firestoreClient.Close()

	ratesService := rates.NewService(firestoreClient)
	// Nenhum cálculo é aceito antes das tabelas carregarem.
	if err := ratesService.Carregar(ctx); err != nil {
		log.Fatalf("Falha ao carregar tabelas de alíquotas e regras: %v", err)
	}

	impostosService := impostos.NewService()
	rateioService := rateio.NewService()
	custosService := custos.NewService()
	precificacaoService := precificacao.NewService(ratesService, rateioService, custosService)
	incentivosService := incentivos.NewService()
	calculoService := calculo.NewService(firestoreClient, ratesService, impostosService, rateioService, custosService, precificacaoService)
	authService := auth.NewService(firestoreClient)

	calculoHandler := handlers.NewCalculoHandler(calculoService)
	precificacaoHandler := handlers.NewPrecificacaoHandler(precificacaoService, incentivosService)
	authHandler := handlers.NewAuthHandler(authService)

	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.Login)
		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware(nil))
		{
			protected.POST("/di/calcular", calculoHandler.HandleCalcular)
			protected.POST("/di/memoria-calculo", calculoHandler.HandleMemoriaCSV)
			protected.POST("/precificar/metodo", precificacaoHandler.HandleMetodo)
			protected.POST("/precificar/item", precificacaoHandler.HandlePrecoItem)
			protected.GET("/regimes-especiais/:ncm", precificacaoHandler.HandleRegimesEspeciais)
			protected.POST("/incentivos/aplicar", precificacaoHandler.HandleAplicarIncentivo)
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Servidor iniciado e escutando na porta %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Falha ao iniciar o servidor: ", err)
	}
}

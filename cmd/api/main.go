package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	// Criar aplicação
	app, err := NewApp()
	if err != nil {
		log.Fatalf("Erro ao inicializar aplicação: %v", err)
	}
	defer app.Close()

	// Iniciar o servidor
	if err := app.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
}

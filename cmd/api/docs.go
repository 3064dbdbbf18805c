package main

// @title           Storage System API
// @version         1.0
// @description     API para controle de estoque e vendas por cestas

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}". O mesmo token também é aceito no cookie de sessão "token".

package services

import "errors"

// Errores de dominio. Los handlers los traducen a códigos HTTP con
// errors.Is; ninguno de ellos deja una mutación a medias.
var (
	ErrInsufficientFunds   = errors.New("saldo insuficiente")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrBotNotFound         = errors.New("bot no encontrado")
	ErrTransactionNotFound = errors.New("transacción no encontrada")
	ErrUnsupportedCurrency = errors.New("moneda no soportada")
	ErrInvalidCredential   = errors.New("credenciales inválidas")
	ErrInvalidAmount       = errors.New("el monto debe ser mayor a cero")

	// ErrAlreadyCompleted indica que la operación ya se aplicó antes. No es
	// un fallo para el usuario: repetir una maduración o un bono no debe
	// pagar dos veces.
	ErrAlreadyCompleted = errors.New("operación ya completada")
)

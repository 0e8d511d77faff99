package entity

// Identity текущий пользователь, выданный провайдером идентификации
type Identity struct {
	Subject     string // стабильный идентификатор субъекта
	DisplayName string
}

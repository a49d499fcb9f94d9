// Package operatorrepo provides data transfer objects and mapping functions
// for operator reference data.
package operatorrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"

	"github.com/google/uuid"
)

// OperatorDTO represents an operator in the database.
type OperatorDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
	Role int
}

// TableName specifies the database table name for operators.
func (OperatorDTO) TableName() string {
	return "operators"
}

// fromDomain converts an operator to its database representation.
func fromDomain(op *operator.Operator) OperatorDTO {
	return OperatorDTO{
		ID:   op.ID().Bytes(),
		Name: op.Name(),
		Role: int(op.Role()),
	}
}

// toDomain converts a database DTO to an operator.
func toDomain(dto OperatorDTO) (*operator.Operator, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return operator.NewOperator(id, dto.Name, operator.Role(dto.Role))
}

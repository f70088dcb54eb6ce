package entity

// Doctor is created once and never mutated.
type Doctor struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"type:text;not null;index" json:"name"`
	Specialization string `gorm:"type:text;not null" json:"specialization"`
}

func (Doctor) TableName() string {
	return "doctors"
}

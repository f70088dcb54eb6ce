package entity

// Patient is registered together with exactly one Appointment.
type Patient struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:text;not null" json:"name"`
	Age  int    `json:"age"`
}

func (Patient) TableName() string {
	return "patients"
}

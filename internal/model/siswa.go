package model

// Siswa is the participant profile owned by the identity service.
type Siswa struct {
	UserUID string `gorm:"column:user_uid;primaryKey" json:"user_uid"`
	Nama    string `json:"nama"`
	NIS     string `gorm:"column:nis" json:"nis"`
	Kelas   string `json:"kelas"`
}

func (Siswa) TableName() string { return "siswa" }

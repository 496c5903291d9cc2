package services

import (
	"errors"

	"github.com/gurimusan/oauth2-sample/internal/models"
	"gorm.io/gorm"
)

type ClientService interface {
	CreateClient(client *models.Client) error
	GetClientByID(clientID string) (*models.Client, error)
	GetClientsByUserID(userID uint) ([]models.Client, error)
	DeleteClient(clientID string, userID uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(client *models.Client) error {
	return s.db.Create(client).Error
}

func (s *clientService) GetClientByID(clientID string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("client_id = ?", clientID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientService) GetClientsByUserID(userID uint) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Where("user_id = ?", userID).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) DeleteClient(clientID string, userID uint) error {
	result := s.db.Where("client_id = ? AND user_id = ?", clientID, userID).Delete(&models.Client{})
	if result.RowsAffected == 0 {
		return errors.New("client_not_found")
	}
	return result.Error
}

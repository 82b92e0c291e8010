package identity

import "fmt"

// Service reports which server answered a request.
type Service interface {
	Identify() Model
}

type ServiceProvider struct {
	model Model
}

func NewService(name, version, address string, port uint16) Service {
	return &ServiceProvider{model: Model{
		Identity: fmt.Sprintf("%s/%s", name, version),
		Address:  address,
		Port:     port,
	}}
}

func (sp *ServiceProvider) Identify() Model {
	return sp.model
}

type Model struct {
	Identity string `json:"identity"`
	Address  string `json:"address"`
	Port     uint16 `json:"port"`
}

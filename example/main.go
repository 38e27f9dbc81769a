package main

import (
	"github.com/siherrmann/dataManager"
	"github.com/siherrmann/dataManager/helper"
)

// main starts the data manager service on DATA_MANAGER_PORT.
func main() {
	dataManager.ManagerServer(helper.GetEnvOrDefault("DATA_MANAGER_PORT", "3000"))
}

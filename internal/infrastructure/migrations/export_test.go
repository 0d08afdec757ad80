package migrations

var DriverURL = driverURL

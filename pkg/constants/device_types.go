package constants

// Типы устройств, которые принимает форма заявки.
const (
	DeviceInverter         = "Inverter"
	DeviceHVBattery        = "HV Battery"
	DeviceLVBattery        = "LV Battery"
	DeviceSolarPanel       = "Solar Panel"
	DeviceChargeController = "Charge Controller"
)

var DeviceTypes = []string{
	DeviceInverter,
	DeviceHVBattery,
	DeviceLVBattery,
	DeviceSolarPanel,
	DeviceChargeController,
}

func IsDeviceType(v string) bool {
	for _, t := range DeviceTypes {
		if t == v {
			return true
		}
	}
	return false
}

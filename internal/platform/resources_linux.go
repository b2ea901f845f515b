package platform

// Resource names only available on Linux.
const (
	ResourceLinuxCheckboxOff = "linuxCheckboxOff"
	ResourceLinuxCheckboxOn  = "linuxCheckboxOn"
	ResourceLinuxRadioOff    = "linuxRadioOff"
	ResourceLinuxRadioOn     = "linuxRadioOn"
)

var osResources = map[string]string{
	ResourceLinuxCheckboxOff: "linux_checkbox_off.png",
	ResourceLinuxCheckboxOn:  "linux_checkbox_on.png",
	ResourceLinuxRadioOff:    "linux_radio_off.png",
	ResourceLinuxRadioOn:     "linux_radio_on.png",
}

package tui

import "github.com/wwpbim/bepgen/payload"

// FormField is one editable line of the project form.
type FormField struct {
	Key         string
	Section     string
	Label       string
	Placeholder string
	Value       string
}

// FormFieldsFromState returns the ordered field list with current values
// filled in. The key set is fixed; ApplyFormFields routes values back by
// key.
func FormFieldsFromState(sess *Session) []FormField {
	p := sess.Payload
	return []FormField{
		{Key: "template", Section: "Template", Label: "Template path", Placeholder: "standard-bep.docx", Value: sess.Template},

		{Key: "project_number", Section: "Project", Label: "Project number", Placeholder: "P-0000", Value: p.ProjectNumber},
		{Key: "project_name", Section: "Project", Label: "Project name", Value: p.ProjectName},
		{Key: "project_address", Section: "Project", Label: "Project address", Value: p.ProjectAddress},
		{Key: "client", Section: "Project", Label: "Client", Value: p.Client},
		{Key: "project_type", Section: "Project", Label: "Project type", Placeholder: "Commercial", Value: p.ProjectType},
		{Key: "contract_type", Section: "Project", Label: "Contract type", Placeholder: "Design and Construct", Value: p.ContractType},
		{Key: "project_description", Section: "Project", Label: "Project description", Value: p.ProjectDescription},
		{Key: "bim_lead", Section: "Project", Label: "BIM lead", Value: p.BimLead},

		{Key: "meeting_cadence", Section: "Collaboration", Label: "Coordination meeting cadence", Placeholder: "Weekly", Value: p.CoordinationMeetingCadence},
		{Key: "package_method", Section: "Collaboration", Label: "Collaboration method", Placeholder: "Shared Packages", Value: p.PackageMethod},
		{Key: "auto_publish_cadence", Section: "Collaboration", Label: "Auto-publish cadence", Value: p.AutoPublishCadence},
		{Key: "sharing_frequency", Section: "Collaboration", Label: "Package sharing frequency", Value: p.SharingFrequency},
		{Key: "package_naming", Section: "Collaboration", Label: "Package naming convention", Value: p.PackageNamingConvention},

		{Key: "geo_system", Section: "Geo-referencing", Label: "Coordinate system", Placeholder: "MGA2020 Zone 56", Value: p.GeoCoordinateSystem},
		{Key: "geo_from_model", Section: "Geo-referencing", Label: "Coordinates acquired from", Value: p.AcquireCoordinatesFromModel},

		{Key: "revit_version", Section: "Software versions", Label: "Autodesk Revit", Placeholder: "2026", Value: p.RevitVersion},
		{Key: "autocad_version", Section: "Software versions", Label: "Autodesk AutoCAD", Value: p.AutoCadVersion},
		{Key: "civil3d_version", Section: "Software versions", Label: "Autodesk Civil 3D", Value: p.Civil3DVersion},
		{Key: "connector_version", Section: "Software versions", Label: "Desktop Connector", Value: p.DesktopConnectorVersion},
		{Key: "bluebeam_version", Section: "Software versions", Label: "Bluebeam Revu", Value: p.BluebeamVersion},

		{Key: "watermark_text", Section: "Watermark", Label: "Watermark text", Placeholder: payload.DefaultWatermarkText, Value: p.WatermarkText},
	}
}

// ApplyFormFields writes edited field values back into the payload and
// returns the template path value. Unknown keys are ignored.
func ApplyFormFields(fields []FormField, p *payload.Payload) (template string) {
	for _, f := range fields {
		switch f.Key {
		case "template":
			template = f.Value
		case "project_number":
			p.ProjectNumber = f.Value
		case "project_name":
			p.ProjectName = f.Value
		case "project_address":
			p.ProjectAddress = f.Value
		case "client":
			p.Client = f.Value
		case "project_type":
			p.ProjectType = f.Value
		case "contract_type":
			p.ContractType = f.Value
		case "project_description":
			p.ProjectDescription = f.Value
		case "bim_lead":
			p.BimLead = f.Value
		case "meeting_cadence":
			p.CoordinationMeetingCadence = f.Value
		case "package_method":
			p.PackageMethod = f.Value
		case "auto_publish_cadence":
			p.AutoPublishCadence = f.Value
		case "sharing_frequency":
			p.SharingFrequency = f.Value
		case "package_naming":
			p.PackageNamingConvention = f.Value
		case "geo_system":
			p.GeoCoordinateSystem = f.Value
		case "geo_from_model":
			p.AcquireCoordinatesFromModel = f.Value
		case "revit_version":
			p.RevitVersion = f.Value
		case "autocad_version":
			p.AutoCadVersion = f.Value
		case "civil3d_version":
			p.Civil3DVersion = f.Value
		case "connector_version":
			p.DesktopConnectorVersion = f.Value
		case "bluebeam_version":
			p.BluebeamVersion = f.Value
		case "watermark_text":
			p.WatermarkText = f.Value
		}
	}
	return template
}

// MoveFocus steps the focused index by delta, clamped to [0, n).
func MoveFocus(focus, delta, n int) int {
	focus += delta
	if focus < 0 {
		return 0
	}
	if focus >= n {
		return n - 1
	}
	return focus
}

// VisibleRange picks the [start, end) window of rows to render so that
// focus stays in view. A non-positive height shows nothing.
func VisibleRange(total, height, focus int) (start, end int) {
	if height <= 0 || total == 0 {
		return 0, 0
	}
	if total <= height {
		return 0, total
	}
	start = focus - height/2
	if start < 0 {
		start = 0
	}
	if start > total-height {
		start = total - height
	}
	return start, start + height
}

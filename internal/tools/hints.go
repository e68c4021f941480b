package tools

func installHints(tool, goos string) []string {
	switch tool {
	case "ant":
		if goos == "windows" {
			return []string{
				"Download Apache Ant from https://ant.apache.org/bindownload.cgi and unpack it, e.g. to C:\\apache-ant",
				"Set ANT_HOME to that folder (setx /M ANT_HOME C:\\apache-ant) or set ant_home in settings.yaml",
				"or via Chocolatey: choco install ant",
			}
		}
		return []string{
			"Install Apache Ant with your package manager and export ANT_HOME",
			"or set ant_home in settings.yaml",
		}
	case "java":
		if goos == "windows" {
			return []string{
				"Install a JDK, e.g. winget install EclipseAdoptium.Temurin.17.JDK",
				"Set JAVA_HOME to the JDK folder or set java_home in settings.yaml",
			}
		}
		return []string{"Install a JDK and export JAVA_HOME"}
	default:
		return nil
	}
}

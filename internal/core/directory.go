package core

import "drspecialist/pkg"

var directory = []pkg.DirectoryEntry{
	{Name: "Cardiologist", Field: "Heart & Blood Vessels", Description: "Specializes in diagnosing and treating diseases of the cardiovascular system.", Icon: "❤️"},
	{Name: "Dermatologist", Field: "Skin, Hair & Nails", Description: "Focuses on conditions affecting the skin, hair, and nails, including cancer and cosmetic issues.", Icon: "✨"},
	{Name: "Neurologist", Field: "Brain & Nervous System", Description: "Treats disorders that affect the brain, spinal cord, and nerves.", Icon: "🧠"},
	{Name: "Orthopedic Surgeon", Field: "Bones & Joints", Description: "Focuses on the musculoskeletal system, including bones, joints, ligaments, and tendons.", Icon: "🦴"},
	{Name: "Pediatrician", Field: "Children's Health", Description: "Provides medical care for infants, children, and adolescents.", Icon: "👶"},
	{Name: "Gastroenterologist", Field: "Digestive System", Description: "Specializes in the digestive system and its disorders.", Icon: "🍏"},
	{Name: "Ophthalmologist", Field: "Eye Care", Description: "Medical and surgical eye specialists for vision problems and eye diseases.", Icon: "👁️"},
	{Name: "Endocrinologist", Field: "Hormones & Metabolism", Description: "Treats hormone imbalances and conditions like diabetes or thyroid disorders.", Icon: "🧬"},
}

// QuickPicks are the sample queries offered under the search box.
var QuickPicks = []string{"Back pain", "Vision problems", "Skin rash", "Diabetes"}

// Directory returns a copy of the static specialist directory.
func Directory() []pkg.DirectoryEntry {
	out := make([]pkg.DirectoryEntry, len(directory))
	copy(out, directory)
	return out
}

// Popular returns the first n directory entries.
func Popular(n int) []pkg.DirectoryEntry {
	if n < 0 || n > len(directory) {
		n = len(directory)
	}
	out := make([]pkg.DirectoryEntry, n)
	copy(out, directory[:n])
	return out
}

package compose

// exercisesKey is the configuration key overriding the built-in exercise list
const exercisesKey = "exercises"

var defaultExercises = []string{
	"20 push-ups! :muscle:",
	"30 knebøy! :leg:",
	"45 sekunder planke! :stopwatch:",
	"15 burpees! :fire:",
	"20 utfall per bein! :athletic_shoe:",
	"50 jumping jacks! :star2:",
	"25 sit-ups! :boom:",
	"15 triceps-dips på en stol! :chair:",
	"30 sekunder superman-hold! :superhero:",
	"20 mountain climbers per side! :mountain:",
	"10 push-ups med klapp! :clap:",
	"40 tåhev! :foot:",
}

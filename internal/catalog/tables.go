package catalog

import "example.com/fittrack/internal/domain"

var exerciseTable = []Exercise{
	{Name: "Back Squat", Category: Strength, Muscles: []string{"quadriceps", "glutes", "hamstrings"}, Equipment: "barbell", Aliases: []string{"squat", "barbell squat"}},
	{Name: "Front Squat", Category: Strength, Muscles: []string{"quadriceps", "glutes", "core"}, Equipment: "barbell"},
	{Name: "Goblet Squat", Category: Strength, Muscles: []string{"quadriceps", "glutes"}, Equipment: "dumbbell"},
	{Name: "Bench Press", Category: Strength, Muscles: []string{"chest", "triceps", "shoulders"}, Equipment: "barbell", Aliases: []string{"bench", "flat bench", "barbell bench press"}},
	{Name: "Incline Bench Press", Category: Strength, Muscles: []string{"chest", "shoulders", "triceps"}, Equipment: "barbell", Aliases: []string{"incline bench"}},
	{Name: "Dumbbell Bench Press", Category: Strength, Muscles: []string{"chest", "triceps"}, Equipment: "dumbbell", Aliases: []string{"db bench"}},
	{Name: "Deadlift", Category: Strength, Muscles: []string{"hamstrings", "glutes", "back"}, Equipment: "barbell", Aliases: []string{"conventional deadlift"}},
	{Name: "Romanian Deadlift", Category: Strength, Muscles: []string{"hamstrings", "glutes"}, Equipment: "barbell", Aliases: []string{"rdl"}},
	{Name: "Overhead Press", Category: Strength, Muscles: []string{"shoulders", "triceps"}, Equipment: "barbell", Aliases: []string{"ohp", "military press", "shoulder press"}},
	{Name: "Barbell Row", Category: Strength, Muscles: []string{"back", "biceps"}, Equipment: "barbell", Aliases: []string{"bent over row"}},
	{Name: "Dumbbell Row", Category: Strength, Muscles: []string{"back", "biceps"}, Equipment: "dumbbell", Aliases: []string{"one arm row"}},
	{Name: "Pull-Up", Category: Strength, Muscles: []string{"back", "biceps"}, Equipment: "bodyweight", Aliases: []string{"pullup", "pull up"}},
	{Name: "Chin-Up", Category: Strength, Muscles: []string{"back", "biceps"}, Equipment: "bodyweight", Aliases: []string{"chinup"}},
	{Name: "Lat Pulldown", Category: Strength, Muscles: []string{"back", "biceps"}, Equipment: "cable"},
	{Name: "Push-Up", Category: Strength, Muscles: []string{"chest", "triceps", "core"}, Equipment: "bodyweight", Aliases: []string{"pushup", "press up"}},
	{Name: "Dip", Category: Strength, Muscles: []string{"chest", "triceps"}, Equipment: "bodyweight", Aliases: []string{"dips"}},
	{Name: "Bicep Curl", Category: Strength, Muscles: []string{"biceps"}, Equipment: "dumbbell", Aliases: []string{"curl", "dumbbell curl"}},
	{Name: "Tricep Pushdown", Category: Strength, Muscles: []string{"triceps"}, Equipment: "cable"},
	{Name: "Lateral Raise", Category: Strength, Muscles: []string{"shoulders"}, Equipment: "dumbbell"},
	{Name: "Leg Press", Category: Strength, Muscles: []string{"quadriceps", "glutes"}, Equipment: "machine"},
	{Name: "Leg Curl", Category: Strength, Muscles: []string{"hamstrings"}, Equipment: "machine"},
	{Name: "Leg Extension", Category: Strength, Muscles: []string{"quadriceps"}, Equipment: "machine"},
	{Name: "Walking Lunge", Category: Strength, Muscles: []string{"quadriceps", "glutes"}, Equipment: "dumbbell", Aliases: []string{"lunge", "lunges"}},
	{Name: "Hip Thrust", Category: Strength, Muscles: []string{"glutes", "hamstrings"}, Equipment: "barbell"},
	{Name: "Calf Raise", Category: Strength, Muscles: []string{"calves"}, Equipment: "machine"},
	{Name: "Plank", Category: Strength, Muscles: []string{"core"}, Equipment: "bodyweight"},
	{Name: "Running", Category: Cardio, Muscles: []string{"legs", "cardiovascular"}, Equipment: "none", Aliases: []string{"run", "jog"}},
	{Name: "Cycling", Category: Cardio, Muscles: []string{"legs", "cardiovascular"}, Equipment: "bike", Aliases: []string{"bike", "ride"}},
	{Name: "Rowing Machine", Category: Cardio, Muscles: []string{"back", "legs", "cardiovascular"}, Equipment: "machine", Aliases: []string{"rower", "erg"}},
	{Name: "Jump Rope", Category: Cardio, Muscles: []string{"calves", "cardiovascular"}, Equipment: "rope", Aliases: []string{"skipping"}},
	{Name: "Swimming", Category: Cardio, Muscles: []string{"full body", "cardiovascular"}, Equipment: "pool", Aliases: []string{"swim"}},
	{Name: "Stair Climber", Category: Cardio, Muscles: []string{"legs", "cardiovascular"}, Equipment: "machine"},
	{Name: "Hip Flexor Stretch", Category: Mobility, Muscles: []string{"hip flexors"}, Equipment: "none"},
	{Name: "World's Greatest Stretch", Category: Mobility, Muscles: []string{"hips", "thoracic spine"}, Equipment: "none"},
	{Name: "Cat-Cow", Category: Mobility, Muscles: []string{"spine"}, Equipment: "none"},
	{Name: "Foam Rolling", Category: Mobility, Muscles: []string{"full body"}, Equipment: "foam roller"},
}

var servingTable = []Serving{
	{Name: "Chicken Breast", ServingSize: "100 g cooked", Grams: 100, Macros: domain.Macros{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}, Aliases: []string{"chicken", "grilled chicken"}},
	{Name: "Salmon", ServingSize: "100 g cooked", Grams: 100, Macros: domain.Macros{Calories: 206, Protein: 22, Carbs: 0, Fat: 12}},
	{Name: "Tuna", ServingSize: "1 can (142 g)", Grams: 142, Macros: domain.Macros{Calories: 179, Protein: 39, Carbs: 0, Fat: 1.3}},
	{Name: "Lean Ground Beef", ServingSize: "100 g cooked", Grams: 100, Macros: domain.Macros{Calories: 218, Protein: 27, Carbs: 0, Fat: 12}, Aliases: []string{"ground beef", "beef"}},
	{Name: "Egg", ServingSize: "1 large", Grams: 50, Macros: domain.Macros{Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8}, Aliases: []string{"eggs"}},
	{Name: "Egg White", ServingSize: "1 large", Grams: 33, Macros: domain.Macros{Calories: 17, Protein: 3.6, Carbs: 0.2, Fat: 0.1}, Aliases: []string{"egg whites"}},
	{Name: "Greek Yogurt", ServingSize: "170 g", Grams: 170, Macros: domain.Macros{Calories: 100, Protein: 17, Carbs: 6, Fat: 0.7}},
	{Name: "Cottage Cheese", ServingSize: "1 cup", Grams: 226, Macros: domain.Macros{Calories: 206, Protein: 28, Carbs: 8, Fat: 9}},
	{Name: "Milk", ServingSize: "1 cup", Grams: 244, Macros: domain.Macros{Calories: 122, Protein: 8, Carbs: 12, Fat: 4.8}},
	{Name: "Whey Protein", ServingSize: "1 scoop (30 g)", Grams: 30, Macros: domain.Macros{Calories: 120, Protein: 24, Carbs: 3, Fat: 1.5}, Aliases: []string{"protein shake", "protein powder"}},
	{Name: "Tofu", ServingSize: "100 g", Grams: 100, Macros: domain.Macros{Calories: 144, Protein: 17, Carbs: 3, Fat: 9}},
	{Name: "Lentils", ServingSize: "1 cup cooked", Grams: 198, Macros: domain.Macros{Calories: 230, Protein: 18, Carbs: 40, Fat: 0.8}},
	{Name: "Black Beans", ServingSize: "1 cup cooked", Grams: 172, Macros: domain.Macros{Calories: 227, Protein: 15, Carbs: 41, Fat: 0.9}, Aliases: []string{"beans"}},
	{Name: "White Rice", ServingSize: "1 cup cooked", Grams: 158, Macros: domain.Macros{Calories: 205, Protein: 4.3, Carbs: 45, Fat: 0.4}, Aliases: []string{"rice"}},
	{Name: "Brown Rice", ServingSize: "1 cup cooked", Grams: 195, Macros: domain.Macros{Calories: 216, Protein: 5, Carbs: 45, Fat: 1.8}},
	{Name: "Oatmeal", ServingSize: "1 cup cooked", Grams: 234, Macros: domain.Macros{Calories: 166, Protein: 5.9, Carbs: 28, Fat: 3.6}, Aliases: []string{"oats", "porridge"}},
	{Name: "Quinoa", ServingSize: "1 cup cooked", Grams: 185, Macros: domain.Macros{Calories: 222, Protein: 8, Carbs: 39, Fat: 3.6}},
	{Name: "Pasta", ServingSize: "1 cup cooked", Grams: 140, Macros: domain.Macros{Calories: 221, Protein: 8, Carbs: 43, Fat: 1.3}, Aliases: []string{"spaghetti"}},
	{Name: "Whole Wheat Bread", ServingSize: "1 slice", Grams: 32, Macros: domain.Macros{Calories: 81, Protein: 4, Carbs: 14, Fat: 1.1}, Aliases: []string{"bread", "toast"}},
	{Name: "Bagel", ServingSize: "1 medium", Grams: 105, Macros: domain.Macros{Calories: 277, Protein: 11, Carbs: 55, Fat: 1.4}},
	{Name: "Sweet Potato", ServingSize: "1 medium", Grams: 130, Macros: domain.Macros{Calories: 112, Protein: 2, Carbs: 26, Fat: 0.1}},
	{Name: "Potato", ServingSize: "1 medium", Grams: 173, Macros: domain.Macros{Calories: 161, Protein: 4.3, Carbs: 37, Fat: 0.2}},
	{Name: "Banana", ServingSize: "1 medium", Grams: 118, Macros: domain.Macros{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4}},
	{Name: "Apple", ServingSize: "1 medium", Grams: 182, Macros: domain.Macros{Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3}},
	{Name: "Orange", ServingSize: "1 medium", Grams: 131, Macros: domain.Macros{Calories: 62, Protein: 1.2, Carbs: 15, Fat: 0.2}},
	{Name: "Blueberries", ServingSize: "1 cup", Grams: 148, Macros: domain.Macros{Calories: 84, Protein: 1.1, Carbs: 21, Fat: 0.5}, Aliases: []string{"berries"}},
	{Name: "Broccoli", ServingSize: "1 cup chopped", Grams: 91, Macros: domain.Macros{Calories: 31, Protein: 2.5, Carbs: 6, Fat: 0.3}},
	{Name: "Spinach", ServingSize: "1 cup raw", Grams: 30, Macros: domain.Macros{Calories: 7, Protein: 0.9, Carbs: 1.1, Fat: 0.1}},
	{Name: "Mixed Salad", ServingSize: "2 cups", Grams: 85, Macros: domain.Macros{Calories: 15, Protein: 1.2, Carbs: 2.9, Fat: 0.2}, Aliases: []string{"salad", "side salad"}},
	{Name: "Avocado", ServingSize: "1/2 fruit", Grams: 100, Macros: domain.Macros{Calories: 160, Protein: 2, Carbs: 8.5, Fat: 14.7}},
	{Name: "Almonds", ServingSize: "1 oz (28 g)", Grams: 28, Macros: domain.Macros{Calories: 164, Protein: 6, Carbs: 6, Fat: 14}, Aliases: []string{"nuts"}},
	{Name: "Peanut Butter", ServingSize: "2 tbsp", Grams: 32, Macros: domain.Macros{Calories: 188, Protein: 8, Carbs: 6, Fat: 16}},
	{Name: "Olive Oil", ServingSize: "1 tbsp", Grams: 13.5, Macros: domain.Macros{Calories: 119, Protein: 0, Carbs: 0, Fat: 13.5}},
	{Name: "Cheddar Cheese", ServingSize: "1 oz (28 g)", Grams: 28, Macros: domain.Macros{Calories: 113, Protein: 7, Carbs: 0.4, Fat: 9.3}, Aliases: []string{"cheese"}},
	{Name: "Pizza", ServingSize: "1 slice", Grams: 107, Macros: domain.Macros{Calories: 285, Protein: 12, Carbs: 36, Fat: 10}},
	{Name: "Burger", ServingSize: "1 sandwich", Grams: 226, Macros: domain.Macros{Calories: 540, Protein: 34, Carbs: 40, Fat: 27}, Aliases: []string{"hamburger", "cheeseburger"}},
	{Name: "Granola Bar", ServingSize: "1 bar", Grams: 42, Macros: domain.Macros{Calories: 190, Protein: 4, Carbs: 29, Fat: 7}},
	{Name: "Dark Chocolate", ServingSize: "1 oz (28 g)", Grams: 28, Macros: domain.Macros{Calories: 170, Protein: 2.2, Carbs: 13, Fat: 12}, Aliases: []string{"chocolate"}},
	{Name: "Orange Juice", ServingSize: "1 cup", Grams: 248, Macros: domain.Macros{Calories: 112, Protein: 1.7, Carbs: 26, Fat: 0.5}},
	{Name: "Coffee With Milk", ServingSize: "1 cup", Grams: 240, Macros: domain.Macros{Calories: 38, Protein: 2, Carbs: 3, Fat: 2}, Aliases: []string{"latte"}},
}

package data

// testStyleYAML is shared by the package tests.
const testStyleYAML = `
objects:
  - name: null
    class: none
  - name: bullet
    class: projectile
    animation: {frames: 2, fps: 24}
  - name: ricochet
    class: decoration
    animation: {frames: 4, fps: 24}
  - name: blood
    class: decoration
    animation: {frames: 1, fps: 1}
  - name: hydrant
    class: obstacle
    destructible: true
    hitpoints: 5
  - name: smoke
    class: decoration
    animation: {frames: 8, fps: 12}
    life_duration: 2
  - name: fire
    class: decoration
    animation: {frames: 6, fps: 18}
  - name: crate
    class: powerup
vehicles:
  - {model: 0, name: beast gts, class: standard_car, seats: 2}
  - {model: 5, name: bus, class: bus, seats: 8}
weapons:
  - {id: 0, name: fists, damage: punch, base_damage: 1, default_ammo: -1}
  - {id: 1, name: pistol, damage: bullet, base_damage: 2, projectile_object: 1, projectile_hit_effect: 2, projectile_size: 0.1, projectile_speed: 20, default_ammo: 40}
  - {id: 3, name: flamethrower, damage: fire, base_damage: 1, projectile_object: 1, projectile_size: 0.3, projectile_speed: 8}
  - {id: 4, name: rocket launcher, damage: explosion, base_damage: 10, projectile_object: 1, projectile_hit_effect: 2, projectile_size: 0.2, projectile_speed: 16}
effects:
  first_blood: 3
  explosion_smoke: 5
  pedestrian_fire: 6
`
